package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/filevault/server/internal/model"
)

// envelope is the JSON/text success body shared by upload/rename/override/
// delete, matching the shape the end-to-end scenarios in spec.md §8 show
// for upload and rename ({"status":201,"message":"...","info":"..."}).
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Info    string `json:"info,omitempty"`
}

// renderEnvelope renders env according to respType: JSON as the scenarios
// show, plain text as a human-readable equivalent (the wire shape for text
// is not dictated by spec.md, so this module picks one consistently), or
// no body at all.
func renderEnvelope(env envelope, respType model.ContentType) ([]byte, model.ContentType, error) {
	switch respType {
	case model.ContentTypeJSON:
		body, err := json.Marshal(env)
		if err != nil {
			return nil, "", err
		}
		return body, model.ContentTypeJSON, nil
	case model.ContentTypeText:
		text := fmt.Sprintf("%d", env.Status)
		if env.Message != "" {
			text += " " + env.Message
		}
		if env.Info != "" {
			text += "\n" + env.Info
		}
		return []byte(text), model.ContentTypeText, nil
	default:
		return nil, model.ContentTypeNone, nil
	}
}

// errorEnvelope is the shape spec.md §7 mandates for every failed request:
// status/error/reason, always JSON regardless of what the handler that
// failed would normally offer.
type errorEnvelope struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// RenderError builds the always-JSON error body for status/kind/reason.
func RenderError(status int, kind, reason string) []byte {
	body, err := json.Marshal(errorEnvelope{Status: status, Error: kind, Reason: reason})
	if err != nil {
		// errorEnvelope only has primitive fields; this cannot realistically fail.
		return []byte(`{"status":500,"error":"internal","reason":"failed to render error"}`)
	}
	return body
}
