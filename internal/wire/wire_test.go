package wire

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

func TestParseRequestUploadScenario(t *testing.T) {
	raw := "POST /files/upload HTTP/1.1\r\n" +
		"Content-Disposition: attachment; filename=\"a.txt\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Length: 5\r\n" +
		"Accept: */*\r\n" +
		"Connection: close\r\n" +
		"\r\n" +
		"HELLO"

	req, err := ParseRequest(bufio.NewReader(strings.NewReader(raw)), "HTTP/1.1")
	require.NoError(t, err)

	assert.Equal(t, model.MethodPost, req.Method)
	assert.Equal(t, "/files/upload", req.RawURL)
	assert.Equal(t, "/files", req.EndpointRoot)
	assert.Equal(t, "/upload", req.PathTail)
	assert.Equal(t, []byte("HELLO"), req.Body)
	assert.False(t, req.ConnectionKeepAlive())

	ct, ok := req.Headers.Get(model.HeaderContentType)
	assert.True(t, ok)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestParseRequestVersionMismatch(t *testing.T) {
	raw := "GET /files/name/a.txt?action=download HTTP/1.0\r\nAccept: */*\r\n\r\n"
	_, err := ParseRequest(bufio.NewReader(strings.NewReader(raw)), "HTTP/1.1")
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 505, ae.Status)
}

func TestParseRequestMalformedRequestLine(t *testing.T) {
	raw := "GET /files HTTP/1.1 extra\r\nAccept: */*\r\n\r\n"
	_, err := ParseRequest(bufio.NewReader(strings.NewReader(raw)), "HTTP/1.1")
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
}

func TestParseRequestCRWithoutLF(t *testing.T) {
	raw := "GET /files HTTP/1.1\rX"
	_, err := ParseRequest(bufio.NewReader(strings.NewReader(raw)), "HTTP/1.1")
	require.Error(t, err)
}

func TestWriteResponse(t *testing.T) {
	resp := model.NewResponse(200, "OK")
	resp.SetBody([]byte("HELLO"), model.ContentTypeOctet)
	resp.Headers.Set(model.HeaderContentDisposition, "attachment; filename=\"a.txt\"")

	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, resp, "HTTP/1.1", "filevault"))

	out := buf.String()
	assert.Contains(t, out, "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, out, "Content-Type: application/octet-stream\r\n")
	assert.Contains(t, out, "Content-Length: 5\r\n")
	assert.Contains(t, out, "Server: filevault\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nHELLO"))
}
