// Package wire is the raw-socket HTTP/1.1 codec (spec component C1). It
// parses a request directly off a buffered byte stream without using
// net/http's request parser, and serializes a response back into the exact
// byte shape spec.md §4.1 describes. The parsing loop is grounded on
// HnustLzh2-http's app/main.go:AnalysisRequest (read request line, then
// headers split on ": ", then Content-Length-sized body), generalized to
// return typed apperr values instead of ad hoc strings and to enforce the
// strict CRLF/version rules spec.md adds on top of that starter.
package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/model"
)

var validMethods = map[string]model.Method{
	"GET":    model.MethodGet,
	"PUT":    model.MethodPut,
	"POST":   model.MethodPost,
	"DELETE": model.MethodDelete,
}

// ParseRequest reads exactly one request off r. serverVersion is the HTTP
// version this server speaks (e.g. "HTTP/1.1"); a request naming any other
// version fails with 505. io.EOF is returned verbatim (not wrapped in
// apperr) so the session loop can tell "client closed the connection
// cleanly" apart from a genuine parse failure.
func ParseRequest(r *bufio.Reader, serverVersion string) (*model.Request, error) {
	line, err := readCRLFLine(r)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, io.EOF
	}

	method, target, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}
	m, ok := validMethods[method]
	if !ok {
		return nil, apperr.Parse(400, "unrecognized method %q", method)
	}
	if version != serverVersion {
		return nil, apperr.Parse(505, "unsupported version %q, server speaks %q", version, serverVersion)
	}

	headers, err := parseHeaders(r)
	if err != nil {
		return nil, err
	}

	var body []byte
	if clStr, ok := headers.Get(model.HeaderContentLength); ok {
		n, err := strconv.Atoi(clStr)
		if err != nil || n < 0 {
			return nil, apperr.Parse(400, "invalid Content-Length %q", clStr)
		}
		body = make([]byte, n)
		if n > 0 {
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, apperr.Parse(400, "short body: %v", err)
			}
		}
	}

	root, tail, query := splitTarget(target)

	return &model.Request{
		Method:       m,
		Version:      version,
		RawURL:       target,
		EndpointRoot: root,
		PathTail:     tail,
		Query:        query,
		Headers:      headers,
		Body:         body,
	}, nil
}

// readCRLFLine reads bytes up to and including a line terminator, enforcing
// that every CR is immediately followed by LF, and returns the line with
// the terminator stripped. A bare "\n" with no preceding CR is not a
// terminator; it is kept as an ordinary byte of the line. EOF before any
// byte of the line is returned as a clean io.EOF, matching the starter's
// behavior of treating a failed first read as connection close rather than
// a parse error.
func readCRLFLine(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() == 0 {
				return "", io.EOF
			}
			return "", apperr.Parse(400, "unexpected end of stream reading line: %v", err)
		}
		if b == '\r' {
			next, err := r.ReadByte()
			if err != nil || next != '\n' {
				return "", apperr.Parse(400, "CR not followed by LF")
			}
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

func parseRequestLine(line string) (method, target, version string, err error) {
	tokens := strings.Split(line, " ")
	if len(tokens) != 3 {
		return "", "", "", apperr.Parse(400, "request line must have exactly three tokens, got %d", len(tokens))
	}
	return tokens[0], tokens[1], tokens[2], nil
}

func parseHeaders(r *bufio.Reader) (*model.Headers, error) {
	headers := model.NewHeaders()
	count := 0
	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		idx := strings.Index(line, ": ")
		if idx < 0 {
			return nil, apperr.Parse(400, "header line missing \": \" separator: %q", line)
		}
		name := line[:idx]
		value := line[idx+2:]
		headers.Set(name, value)
		count++
	}
	if count == 0 {
		return nil, apperr.Parse(400, "no headers parsed")
	}
	return headers, nil
}

// splitTarget separates a request target into the endpoint root (its first
// path segment, e.g. "/files"), the path tail (everything after the root,
// leading "/" kept), and the raw query (no leading "?").
func splitTarget(target string) (root, tail, query string) {
	path := target
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path = target[:i]
		query = target[i+1:]
	}
	if path == "" || path[0] != '/' {
		return path, "", query
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		root = "/" + rest[:i]
		tail = rest[i:]
		return root, tail, query
	}
	return "/" + rest, "", query
}

// WriteResponse serializes resp to w in the exact wire shape: status line,
// headers in insertion order, a blank line, then the body. Server,
// Connection, and (when the body is non-empty) Content-Type/Content-Length
// are always emitted regardless of what the handler set directly, matching
// the invariant in spec.md §3.
func WriteResponse(w io.Writer, resp *model.Response, serverVersion, serverName string) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s %d %s\r\n", serverVersion, resp.Status, resp.Reason); err != nil {
		return err
	}

	resp.Headers.Set(model.HeaderServer, serverName)
	resp.Headers.Set(model.HeaderConnection, string(resp.Connection))
	if len(resp.Body) > 0 {
		resp.Headers.Set(model.HeaderContentType, string(resp.Type))
		resp.Headers.Set(model.HeaderContentLength, strconv.Itoa(len(resp.Body)))
	}

	for _, name := range resp.Headers.Names() {
		v, _ := resp.Headers.Get(name)
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", name, v); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	if len(resp.Body) > 0 {
		if _, err := bw.Write(resp.Body); err != nil {
			return err
		}
	}
	return bw.Flush()
}
