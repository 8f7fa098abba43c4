package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/store"
)

// View implements GET .../name|id|query/{x}?action=view. Its response
// body is the entry list itself, never wrapped in the status envelope the
// other handlers use, per spec.md §4.5.
type View struct {
	store *store.Store
}

func NewView(s *store.Store) *View { return &View{store: s} }

func (h *View) RequestTypes() map[model.ContentType]bool { return anyRequestType }

func (h *View) ResponseTypes() []model.ContentType {
	return []model.ContentType{model.ContentTypeJSON, model.ContentTypeText}
}

func (h *View) Handle(_ *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	var entries []*model.FileEntry

	if query, ok := params["query"]; ok {
		entries = h.store.List(query)
	} else {
		identifier, err := identifierFromParams(params)
		if err != nil {
			return nil, err
		}
		entry, err := h.store.View(identifier)
		if err != nil {
			return nil, err
		}
		entries = []*model.FileEntry{entry}
	}

	body, ct, err := renderList(entries, respType)
	if err != nil {
		return nil, apperr.Store(500, "render view response: %v", err)
	}

	resp := model.NewResponse(200, model.ReasonPhrase(200))
	resp.SetBody(body, ct)
	return resp, nil
}

func renderList(entries []*model.FileEntry, respType model.ContentType) ([]byte, model.ContentType, error) {
	if entries == nil {
		entries = []*model.FileEntry{}
	}
	switch respType {
	case model.ContentTypeText:
		var sb strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&sb, "#%d\t%s\t%s\t%s\tcreated %s\tupdated %s\n",
				e.FileID, e.FileName, e.FileType, e.FileSize, e.TimeCreated, e.TimeUpdated)
		}
		return []byte(sb.String()), model.ContentTypeText, nil
	default:
		body, err := json.Marshal(entries)
		if err != nil {
			return nil, "", err
		}
		return body, model.ContentTypeJSON, nil
	}
}
