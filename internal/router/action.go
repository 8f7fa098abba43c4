package router

import (
	"strings"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

// Action identifies which handler kind a request resolves to, per
// spec.md's "Action" glossary entry.
type Action string

const (
	ActionDownload Action = "download"
	ActionView     Action = "view"
	ActionOverride Action = "override"
	ActionRename   Action = "update-name"
	ActionUpload   Action = "upload"
	ActionDelete   Action = "delete"
)

// resolveAction implements spec.md §4.4's "Handler selection by action":
// for GET/PUT it reads the `action` query parameter; for POST it is the
// first path segment after the root; DELETE carries no action at all and
// always resolves to ActionDelete.
func resolveAction(req *model.Request) (Action, error) {
	switch req.Method {
	case model.MethodDelete:
		return ActionDelete, nil
	case model.MethodPost:
		seg := firstSegment(req.PathTail)
		if seg != "upload" {
			return "", apperr.URL(400, "unknown POST action %q", seg)
		}
		return ActionUpload, nil
	default: // GET, PUT
		raw, ok := queryParam(req.Query, "action")
		if !ok {
			return "", apperr.URL(400, "missing action query parameter")
		}
		switch raw {
		case "download":
			return ActionDownload, nil
		case "view":
			return ActionView, nil
		case "override":
			return ActionOverride, nil
		case "update-name":
			return ActionRename, nil
		default:
			return "", apperr.URL(400, "unknown action %q", raw)
		}
	}
}

func firstSegment(tail string) string {
	trimmed := strings.TrimPrefix(tail, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

func queryParam(query, key string) (string, bool) {
	for _, pair := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}
