package handlers

import (
	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// Override implements PUT .../override. Same body rules as upload; the
// request body replaces the file's contents and the catalog's size and
// updated-time refresh, without a rename.
type Override struct {
	store *store.Store
}

func NewOverride(s *store.Store) *Override { return &Override{store: s} }

func (h *Override) RequestTypes() map[model.ContentType]bool { return binaryRequestTypes }

func (h *Override) ResponseTypes() []model.ContentType { return statusEnvelopeTypes }

func (h *Override) Handle(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}

	if _, ok := req.Headers.Get(model.HeaderContentLength); !ok {
		return nil, apperr.Parse(411, "missing Content-Length header")
	}
	if len(req.Body) == 0 {
		return nil, apperr.Parse(400, "empty override body")
	}

	entry, err := h.store.Override(identifier, req.Body)
	if err != nil {
		return nil, err
	}

	body, ct, err := renderEnvelope(envelope{
		Status:  200,
		Message: "File overridden successfully",
		Info:    entry.FileName + " now " + entry.FileSize,
	}, respType)
	if err != nil {
		return nil, apperr.Store(500, "render override response: %v", err)
	}

	resp := model.NewResponse(200, model.ReasonPhrase(200))
	resp.SetBody(body, ct)
	return resp, nil
}
