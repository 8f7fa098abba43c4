package handlers

import (
	"fmt"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// Upload implements POST /files/upload. The file name comes from
// Content-Disposition, never from the URL: spec.md §9 notes the original
// implementation has a dead-code path that reads the name from the URL
// instead, and explicitly says to treat the URL as informational only, so
// this handler does not implement that second path at all.
type Upload struct {
	store *store.Store
}

func NewUpload(s *store.Store) *Upload { return &Upload{store: s} }

func (h *Upload) RequestTypes() map[model.ContentType]bool { return binaryRequestTypes }

func (h *Upload) ResponseTypes() []model.ContentType { return statusEnvelopeTypes }

func (h *Upload) Handle(req *model.Request, _ map[string]string, respType model.ContentType) (*model.Response, error) {
	disposition, ok := req.Headers.Get(model.HeaderContentDisposition)
	if !ok {
		return nil, apperr.Parse(400, "missing Content-Disposition header")
	}
	name, ok := contentDispositionFilename(disposition)
	if !ok {
		return nil, apperr.Parse(400, "malformed Content-Disposition header %q", disposition)
	}

	if _, ok := req.Headers.Get(model.HeaderContentLength); !ok {
		return nil, apperr.Parse(411, "missing Content-Length header")
	}
	if len(req.Body) == 0 {
		return nil, apperr.Parse(400, "empty upload body")
	}

	entry, err := h.store.Add(name, req.Body)
	if err != nil {
		return nil, err
	}

	body, ct, err := renderEnvelope(envelope{
		Status:  201,
		Message: "File saved on the server",
		Info:    fmt.Sprintf("'%s' was given a unique identifier #%d", entry.FileName, entry.FileID),
	}, respType)
	if err != nil {
		return nil, apperr.Store(500, "render upload response: %v", err)
	}

	resp := model.NewResponse(201, model.ReasonPhrase(201))
	resp.SetBody(body, ct)
	return resp, nil
}
