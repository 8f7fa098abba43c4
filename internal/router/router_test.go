package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/server/internal/handlers"
	"github.com/filevault/server/internal/model"
)

type stubHandler struct {
	reqTypes  map[model.ContentType]bool
	respTypes []model.ContentType
	handle    func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error)
}

func (s *stubHandler) RequestTypes() map[model.ContentType]bool { return s.reqTypes }
func (s *stubHandler) ResponseTypes() []model.ContentType       { return s.respTypes }
func (s *stubHandler) Handle(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	return s.handle(req, params, respType)
}

func anyTypeStub(handle func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error)) *stubHandler {
	return &stubHandler{
		reqTypes:  map[model.ContentType]bool{"*/any*": true},
		respTypes: []model.ContentType{model.ContentTypeJSON},
		handle:    handle,
	}
}

func newTestRequest(method model.Method, rawURL string) *model.Request {
	h := model.NewHeaders()
	h.Set(model.HeaderAccept, "*/*")
	return &model.Request{
		Method:       method,
		Version:      "HTTP/1.1",
		RawURL:       rawURL,
		EndpointRoot: "/files",
		PathTail:     rawURL[len("/files"):],
		Headers:      h,
	}
}

func buildRegistry(handler handlers.Handler, action Action) *Registry {
	reg := NewRegistry()
	reg.Register(&Endpoint{
		Root: "/files",
		Templates: model.MethodTemplates{
			model.MethodGet: {
				{Pattern: "/files/name/{name}?action=download"},
				{Pattern: "/files/id/{id}?action=view"},
			},
			model.MethodDelete: {
				{Pattern: "/files/name/{name}"},
			},
		},
		Handlers: map[Action]handlers.Handler{action: handler},
	})
	return reg
}

func TestDispatchUnknownEndpoint404(t *testing.T) {
	reg := NewRegistry()
	req := newTestRequest(model.MethodGet, "/other/thing")
	req.EndpointRoot = "/other"
	_, err := reg.Dispatch(req)
	require.Error(t, err)
}

func TestDispatchMethodNotAllowed405(t *testing.T) {
	reg := buildRegistry(anyTypeStub(nil), ActionDownload)
	req := newTestRequest(model.MethodPut, "/files/name/a.txt?action=override")
	_, err := reg.Dispatch(req)
	require.Error(t, err)
}

func TestDispatchNoTemplateMatches404(t *testing.T) {
	reg := buildRegistry(anyTypeStub(nil), ActionDownload)
	req := newTestRequest(model.MethodGet, "/files/name/a.txt?action=view")
	_, err := reg.Dispatch(req)
	require.Error(t, err)
}

func TestDispatchSuccess(t *testing.T) {
	called := false
	handler := anyTypeStub(func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
		called = true
		assert.Equal(t, "a.txt", params["name"])
		return model.NewResponse(200, "OK"), nil
	})
	reg := buildRegistry(handler, ActionDownload)
	req := newTestRequest(model.MethodGet, "/files/name/a.txt?action=download")

	resp, err := reg.Dispatch(req)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 200, resp.Status)
}

func TestDispatchUnsupportedAction400(t *testing.T) {
	reg := buildRegistry(anyTypeStub(nil), ActionView)
	req := newTestRequest(model.MethodGet, "/files/name/a.txt?action=download")
	_, err := reg.Dispatch(req)
	require.Error(t, err)
}
