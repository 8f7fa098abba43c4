// Package handlers implements the six action handlers (spec component
// C5): one per (method, action) pair; View also serves the keyword listing. Each handler validates its content
// types via internal/negotiate, parses the URL tail, invokes
// internal/store, and builds a response. Handler instances are stateless
// once constructed and are owned and reused by internal/router, per
// spec.md §4.4.
package handlers

import (
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/negotiate"
)

// Handler is implemented by each of the six action handlers.
type Handler interface {
	// RequestTypes is the acceptable request Content-Type allow-list, or
	// {negotiate.AnyRequestType: true} to accept anything.
	RequestTypes() map[model.ContentType]bool
	// ResponseTypes is the ordered list of response types this handler can
	// produce, used to pick one against the client's Accept header.
	ResponseTypes() []model.ContentType
	// Handle executes the action. params carries the placeholder bindings
	// extracted from the matched URL template. respType is the content
	// type internal/negotiate already selected from ResponseTypes().
	Handle(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error)
}

var anyRequestType = map[model.ContentType]bool{negotiate.AnyRequestType: true}

var binaryRequestTypes = model.BinaryMediaTypes

var statusEnvelopeTypes = []model.ContentType{model.ContentTypeJSON, model.ContentTypeText, model.ContentTypeNone}
