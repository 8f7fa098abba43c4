package router

import (
	"encoding/json"
	"os"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

// LoadTemplates reads the templates JSON file (spec.md §6: "mapping from
// endpoint root → mapping from method name → ordered array of template
// strings") into a model.TemplateTable.
func LoadTemplates(path string) (model.TemplateTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Config("read templates file %q: %v", path, err)
	}

	var parsed map[string]map[string][]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperr.Config("decode templates file %q: %v", path, err)
	}

	table := model.TemplateTable{}
	for root, methods := range parsed {
		mt := model.MethodTemplates{}
		for methodName, patterns := range methods {
			method := model.Method(methodName)
			templates := make([]model.Template, 0, len(patterns))
			for _, p := range patterns {
				templates = append(templates, model.Template{Pattern: p})
			}
			mt[method] = templates
		}
		table[root] = mt
	}
	return table, nil
}
