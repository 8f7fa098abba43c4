package handlers

import (
	"fmt"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// Rename implements PUT .../update-name&value={value}. The new name is
// required to keep the same file-type tag as the old one; that check lives
// here, not in internal/store, per spec.md §4.6.
type Rename struct {
	store *store.Store
}

func NewRename(s *store.Store) *Rename { return &Rename{store: s} }

func (h *Rename) RequestTypes() map[model.ContentType]bool { return anyRequestType }

func (h *Rename) ResponseTypes() []model.ContentType { return statusEnvelopeTypes }

func (h *Rename) Handle(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}
	newName, ok := queryValue(req.Query, "value")
	if !ok || newName == "" {
		return nil, apperr.URL(400, "missing value query parameter")
	}

	current, err := h.store.View(identifier)
	if err != nil {
		return nil, err
	}
	if model.TypeTagOf(current.FileName) != model.TypeTagOf(newName) {
		return nil, apperr.Store(400, "rename %q to %q changes file type", current.FileName, newName)
	}

	entry, err := h.store.Rename(identifier, newName)
	if err != nil {
		return nil, err
	}

	body, ct, err := renderEnvelope(envelope{
		Status:  200,
		Message: "File updated successfully",
		Info:    fmt.Sprintf("'%s' is now '%s'", current.FileName, entry.FileName),
	}, respType)
	if err != nil {
		return nil, apperr.Store(500, "render rename response: %v", err)
	}

	resp := model.NewResponse(200, model.ReasonPhrase(200))
	resp.SetBody(body, ct)
	return resp, nil
}
