package handlers

import (
	"fmt"

	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// Download implements GET .../name|id/{x}?action=download.
type Download struct {
	store *store.Store
}

func NewDownload(s *store.Store) *Download { return &Download{store: s} }

func (h *Download) RequestTypes() map[model.ContentType]bool { return anyRequestType }

func (h *Download) ResponseTypes() []model.ContentType {
	return []model.ContentType{
		model.ContentTypeOctet, model.ContentTypeJPEG, model.ContentTypePNG,
		model.ContentTypeGIF, model.ContentTypeMPEG, model.ContentTypeMP4,
	}
}

func (h *Download) Handle(_ *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	identifier, err := identifierFromParams(params)
	if err != nil {
		return nil, err
	}
	data, name, err := h.store.Get(identifier)
	if err != nil {
		return nil, err
	}

	resp := model.NewResponse(200, model.ReasonPhrase(200))
	resp.Headers.Set(model.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"%s\"", name))
	resp.SetBody(data, respType)
	return resp, nil
}
