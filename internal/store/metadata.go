package store

import (
	"encoding/json"
	"fmt"

	"github.com/filevault/server/internal/model"
)

// decodeMetadata parses the metadata file's two top-level fields by their
// configured names, since spec.md §6 allows those names (but not the
// per-entry field names) to be set in settings.
func decodeMetadata(raw []byte, idKey, dataKey string) (*metadataFile, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	mf := &metadataFile{data: map[string]*model.FileEntry{}}

	if idRaw, ok := obj[idKey]; ok {
		if err := json.Unmarshal(idRaw, &mf.currentID); err != nil {
			return nil, fmt.Errorf("field %q: %w", idKey, err)
		}
	}
	if dataRaw, ok := obj[dataKey]; ok {
		if err := json.Unmarshal(dataRaw, &mf.data); err != nil {
			return nil, fmt.Errorf("field %q: %w", dataKey, err)
		}
	}
	return mf, nil
}

// encodeMetadata renders the catalog into the same shape, keyed by the
// entry's id formatted as a decimal string.
func encodeMetadata(currentID int64, catalog map[int64]*model.FileEntry, idKey, dataKey string) ([]byte, error) {
	data := make(map[string]*model.FileEntry, len(catalog))
	for id, entry := range catalog {
		data[fmt.Sprintf("%d", id)] = entry
	}
	obj := map[string]any{
		idKey:   currentID,
		dataKey: data,
	}
	return json.MarshalIndent(obj, "", "  ")
}
