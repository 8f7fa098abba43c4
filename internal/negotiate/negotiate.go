// Package negotiate implements the content-type negotiator (spec
// component C3): validating a request's Content-Type against a handler's
// allow-list, and choosing a response type from the client's Accept header
// against a handler's offer-list.
package negotiate

import (
	"strings"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

// AnyRequestType is the allow-list marker meaning "accept any request
// Content-Type, including none at all".
const AnyRequestType = model.ContentType("*/any*")

// CheckRequestType validates headers' Content-Type against allowed. If
// allowed contains AnyRequestType, every request passes. Otherwise a
// missing header is accepted (nothing to validate); a present header not in
// allowed fails with 415.
func CheckRequestType(headers *model.Headers, allowed map[model.ContentType]bool) error {
	if allowed[AnyRequestType] {
		return nil
	}
	v, ok := headers.Get(model.HeaderContentType)
	if !ok {
		return nil
	}
	if allowed[model.ContentType(v)] {
		return nil
	}
	return apperr.Media(415, "unsupported request content type %q", v)
}

// SelectResponseType reads the Accept header and picks the first entry of
// offered (the handler's ordered response offerings) that the client will
// accept. Per spec §4.3, priority weights ("q=...") are ignored: the Accept
// list is a flat set once split on commas. No Accept header or a "*/*"
// entry anywhere in the list selects the first offered type outright.
func SelectResponseType(headers *model.Headers, offered []model.ContentType) (model.ContentType, error) {
	if len(offered) == 0 {
		return model.ContentTypeNone, nil
	}
	raw, ok := headers.Get(model.HeaderAccept)
	if !ok {
		return offered[0], nil
	}

	accepted := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		accepted[strings.TrimSpace(part)] = true
	}
	if accepted["*/*"] {
		return offered[0], nil
	}
	for _, t := range offered {
		if accepted[string(t)] {
			return t, nil
		}
	}
	return "", apperr.Media(406, "no offered response type in Accept list %q", raw)
}
