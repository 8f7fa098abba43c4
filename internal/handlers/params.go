package handlers

import (
	"strconv"
	"strings"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/store"
)

// identifierFromParams resolves the common URL tail shape ("/name/<n>" or
// "/id/<n>") into a store.Identifier. A non-numeric id is a 404 per
// spec.md §4.5 ("non-numeric id → 404"), not a 400: an unparseable id
// simply cannot name any file.
func identifierFromParams(params map[string]string) (store.Identifier, error) {
	if idStr, ok := params["id"]; ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return store.Identifier{}, apperr.Store(404, "invalid id %q", idStr)
		}
		return store.ByID(id), nil
	}
	if name, ok := params["name"]; ok {
		return store.ByName(name), nil
	}
	return store.Identifier{}, apperr.URL(400, "URL carries neither a name nor an id")
}

// contentDispositionFilename extracts the quoted filename from a
// `attachment; filename="<name>"` header value, the only form spec.md §4.5
// requires upload to understand.
func contentDispositionFilename(value string) (string, bool) {
	const prefix = "attachment; filename=\""
	if !strings.HasPrefix(value, prefix) || !strings.HasSuffix(value, "\"") {
		return "", false
	}
	name := value[len(prefix) : len(value)-1]
	if name == "" {
		return "", false
	}
	return name, true
}

// queryValue reads a single key's value out of a raw query string
// ("a=1&b=2"), used for the rename handler's `value` parameter.
func queryValue(query, key string) (string, bool) {
	for _, pair := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}
