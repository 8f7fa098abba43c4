// Package session is the per-connection loop (spec component C7): read one
// request, dispatch it, write the response, and honor Connection:
// keep-alive/close. Grounded on HnustLzh2-http/app/main.go's
// handleConnection (bufio.Reader reused across requests on one
// connection, loop until the client asks to close or the socket errors),
// generalized to route through internal/router instead of the teacher's
// single-segment Mux and to convert parse failures into the JSON error
// envelope spec.md §7 mandates instead of printing and dropping the
// connection.
package session

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/filevault/server/internal/apperr"
	"github.com/filevault/server/internal/handlers"
	"github.com/filevault/server/internal/model"
	"github.com/filevault/server/internal/router"
	"github.com/filevault/server/internal/wire"
)

// Session runs one connection's request/response loop.
type Session struct {
	conn          net.Conn
	registry      *router.Registry
	serverVersion string
	serverName    string
	requestLog    *logrus.Logger
}

// New builds a session for an already-accepted connection.
func New(conn net.Conn, registry *router.Registry, serverVersion, serverName string, requestLog *logrus.Logger) *Session {
	return &Session{
		conn:          conn,
		registry:      registry,
		serverVersion: serverVersion,
		serverName:    serverName,
		requestLog:    requestLog,
	}
}

// Run drives the request/response loop until the connection closes, the
// client asks to close it, or a read/write fails outright. It never
// panics: every handler-chain failure is converted into a response instead
// of propagated.
func (s *Session) Run() {
	defer s.conn.Close()

	reader := bufio.NewReader(s.conn)
	for {
		start := time.Now()
		req, err := wire.ParseRequest(reader, s.serverVersion)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			resp := errorResponse(err, s.serverVersion)
			_ = wire.WriteResponse(s.conn, resp, s.serverVersion, s.serverName)
			return
		}

		resp, dispatchErr := s.registry.Dispatch(req)
		if dispatchErr != nil {
			// A dispatch failure (404/400/415/...) is an ordinary response
			// at the protocol level, not a parser exception, so it does not
			// force the connection closed on its own.
			resp = errorResponse(dispatchErr, s.serverVersion)
			resp.Connection = model.ConnectionKeepAlive
		}
		if !req.ConnectionKeepAlive() {
			resp.Connection = model.ConnectionClose
		}

		if writeErr := wire.WriteResponse(s.conn, resp, s.serverVersion, s.serverName); writeErr != nil {
			return
		}

		s.logRequest(req, resp, time.Since(start))

		if resp.Connection == model.ConnectionClose {
			return
		}
	}
}

func (s *Session) logRequest(req *model.Request, resp *model.Response, dur time.Duration) {
	if s.requestLog == nil {
		return
	}
	s.requestLog.WithFields(logrus.Fields{
		"remote":   s.conn.RemoteAddr().String(),
		"method":   req.Method,
		"url":      req.RawURL,
		"status":   resp.Status,
		"duration": dur.String(),
	}).Info("request handled")
}

// errorResponse converts any error into the session's baseline error
// response: a JSON envelope regardless of what the failing handler would
// normally offer, per spec.md §7.
func errorResponse(err error, version string) *model.Response {
	status := 500
	kind := "InternalError"
	reason := err.Error()

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status = ae.Status
		reason = ae.Reason
		switch ae.Kind {
		case apperr.KindParse:
			kind = "ParseError"
		case apperr.KindURL:
			kind = "URLError"
		case apperr.KindMedia:
			kind = "MediaError"
		case apperr.KindStore:
			kind = "StoreError"
		case apperr.KindConfig:
			kind = "ConfigError"
		}
		if status == 0 {
			status = 500
		}
	}

	resp := model.NewResponse(status, model.ReasonPhrase(status))
	resp.SetBody(handlers.RenderError(status, kind, reason), model.ContentTypeJSON)
	resp.Connection = model.ConnectionClose
	return resp
}
