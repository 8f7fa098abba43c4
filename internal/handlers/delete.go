package handlers

import (
	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// Delete implements DELETE .../name|id/{x}. Removes the on-disk file and
// the catalog entry; the id counter is never decremented.
type Delete struct {
	store *store.Store
}

func NewDelete(s *store.Store) *Delete { return &Delete{store: s} }

func (h *Delete) RequestTypes() map[model.ContentType]bool { return anyRequestType }

func (h *Delete) ResponseTypes() []model.ContentType { return statusEnvelopeTypes }

func (h *Delete) Handle(_ *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}
	if err := h.store.Delete(identifier); err != nil {
		return nil, err
	}

	body, ct, err := renderEnvelope(envelope{
		Status:  200,
		Message: "File deleted successfully",
	}, respType)
	if err != nil {
		return nil, apperr.Store(500, "render delete response: %v", err)
	}

	resp := model.NewResponse(200, model.ReasonPhrase(200))
	resp.SetBody(body, ct)
	return resp, nil
}
