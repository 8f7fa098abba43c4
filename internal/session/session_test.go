package session

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/server/internal/handlers"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/router"
)

type stubHandler struct {
	handle func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error)
}

func (s *stubHandler) RequestTypes() map[model.ContentType]bool {
	return map[model.ContentType]bool{"*/any*": true}
}
func (s *stubHandler) ResponseTypes() []model.ContentType {
	return []model.ContentType{model.ContentTypeJSON}
}
func (s *stubHandler) Handle(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
	return s.handle(req, params, respType)
}

func testRegistry(handle func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error)) *router.Registry {
	reg := router.NewRegistry()
	reg.Register(&router.Endpoint{
		Root: "/files",
		Templates: model.MethodTemplates{
			model.MethodGet: {{Pattern: "/files/name/{name}?action=view"}},
		},
		Handlers: map[router.Action]handlers.Handler{
			router.ActionView: &stubHandler{handle: handle},
		},
	})
	return reg
}

func runSession(t *testing.T, reg *router.Registry, request string) string {
	t.Helper()
	client, server := net.Pipe()
	defer client.Close()

	sess := New(server, reg, "HTTP/1.1", "filevault-test", nil)
	done := make(chan struct{})
	go func() {
		sess.Run()
		close(done)
	}()

	_, err := client.Write([]byte(request))
	require.NoError(t, err)

	reader := bufio.NewReader(client)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)

	var lines []string
	lines = append(lines, statusLine)
	for {
		line, err := reader.ReadString('\n')
		lines = append(lines, line)
		if err != nil || strings.TrimSpace(line) == "" {
			break
		}
	}

	client.Close()
	<-done
	return strings.Join(lines, "")
}

func TestSessionDispatchesSuccessfully(t *testing.T) {
	reg := testRegistry(func(req *model.Request, params map[string]string, respType model.ContentType) (*model.Response, error) {
		resp := model.NewResponse(200, "OK")
		resp.SetBody([]byte(`{"ok":true}`), model.ContentTypeJSON)
		resp.Connection = model.ConnectionClose
		return resp, nil
	})

	req := "GET /files/name/a.txt?action=view HTTP/1.1\r\nAccept: */*\r\nConnection: close\r\n\r\n"
	out := runSession(t, reg, req)
	assert.Contains(t, out, "HTTP/1.1 200 OK")
	assert.Contains(t, out, "Connection: close")
}

func TestSessionDispatchErrorKeepsConnectionOpenUnlessRequested(t *testing.T) {
	reg := router.NewRegistry() // no endpoints, every request 404s

	req := "GET /missing HTTP/1.1\r\nAccept: */*\r\n\r\n"
	out := runSession(t, reg, req)
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "Connection: keep-alive")
}

func TestSessionParseFailureClosesConnection(t *testing.T) {
	reg := router.NewRegistry()

	req := "GET /files HTTP/1.0\r\nAccept: */*\r\n\r\n"
	out := runSession(t, reg, req)
	assert.Contains(t, out, "505")
	assert.Contains(t, out, "Connection: close")
}

func TestSessionEOFClosesQuietly(t *testing.T) {
	client, server := net.Pipe()
	sess := New(server, router.NewRegistry(), "HTTP/1.1", "filevault-test", nil)
	done := make(chan struct{})
	go func() {
		sess.Run()
		close(done)
	}()
	client.Close()
	<-done
}
