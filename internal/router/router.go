// Package router is the URL routing engine (spec component C4): it maps
// (method, endpoint root) pairs to handler instances bound to a service,
// and selects a handler by matching the request URL against the
// endpoint's generic templates (internal/urlmatch). It generalizes the
// teacher's HnustLzh2-http/app/mux.go single-segment Mux into the
// registry-keyed-by-endpoint-root design spec.md §9 asks for, since Go has
// no per-case-methods enum to hang this on the way the original's
// UrlRootDirectory enum does.
package router

import (
	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/handlers"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/negotiate"
	"github.com/filevault/server/internal/urlmatch"
)

// Endpoint is one registered endpoint root: its frozen template table, its
// handler instances (one per action, owned and reused across requests),
// and the function that flushes its backing service on shutdown.
type Endpoint struct {
	Root      string
	Templates model.MethodTemplates
	Handlers  map[Action]handlers.Handler
	Close     func() error
}

// Registry is the frozen, startup-built set of endpoints. Read-only after
// construction, so it needs no locking of its own.
type Registry struct {
	endpoints map[string]*Endpoint
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{endpoints: map[string]*Endpoint{}}
}

// Register adds an endpoint. Called once per root at startup.
func (r *Registry) Register(ep *Endpoint) {
	r.endpoints[ep.Root] = ep
}

// Endpoints returns every registered endpoint, for shutdown (flushing each
// one's store).
func (r *Registry) Endpoints() []*Endpoint {
	out := make([]*Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		out = append(out, ep)
	}
	return out
}

// Dispatch resolves req to a handler, negotiates content types, and
// executes it. Every failure is an *apperr.Error carrying the HTTP status
// the session layer should write back.
func (r *Registry) Dispatch(req *model.Request) (*model.Response, error) {
	ep, ok := r.endpoints[req.EndpointRoot]
	if !ok {
		return nil, apperr.URL(404, "unknown endpoint %q", req.EndpointRoot)
	}

	templates, ok := ep.Templates[req.Method]
	if !ok {
		return nil, apperr.URL(405, "method %s not allowed on %s", req.Method, req.EndpointRoot)
	}

	var matched string
	found := false
	for _, t := range templates {
		if urlmatch.Match(t.Pattern, req.FullURL()) {
			matched = t.Pattern
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.URL(404, "no template matches %s", req.FullURL())
	}

	action, err := resolveAction(req)
	if err != nil {
		return nil, err
	}
	handler, ok := ep.Handlers[action]
	if !ok {
		return nil, apperr.URL(400, "unsupported action %q for %s", action, req.EndpointRoot)
	}

	if err := negotiate.CheckRequestType(req.Headers, handler.RequestTypes()); err != nil {
		return nil, err
	}
	respType, err := negotiate.SelectResponseType(req.Headers, handler.ResponseTypes())
	if err != nil {
		return nil, err
	}

	params := urlmatch.Params(matched, req.FullURL())
	return handler.Handle(req, params, respType)
}
