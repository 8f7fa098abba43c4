package model

// Template is one generic URL shape: the pattern string itself (e.g.
// "/files/name/{name}?action=download"). The method is the key it is stored
// under in MethodTemplates, and action resolution lives in internal/router;
// Template only carries what is frozen at load time.
type Template struct {
	Pattern string
}

// MethodTemplates maps an HTTP method to its ordered list of templates for
// one endpoint root. Order matters: the router walks the list and the
// first match wins (spec §4.4).
type MethodTemplates map[Method][]Template

// TemplateTable maps endpoint root (e.g. "/files") to its MethodTemplates,
// as loaded verbatim from the templates JSON file.
type TemplateTable map[string]MethodTemplates
