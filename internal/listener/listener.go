// Package listener is the accept loop and supervisor (spec component C8):
// opens the listening socket, hands each connection to a bounded worker
// pool, and owns start/stop lifecycle and shutdown ordering. The
// fixed-size-pool-via-buffered-channel idiom is grounded on
// TurlingXian-devops-docs-group-work's http_server.go
// (`semaphore := make(chan struct{}, MAX_CLIENTS)`), generalized into a
// reusable Supervisor that also tracks the live connection set for the
// admin console's ".connections" command and drains outstanding work with
// a deadline on shutdown instead of just capping concurrency.
package listener

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/filevault/server/internal/logger"
	"github.com/filevault/server/internal/router"
	"github.com/filevault/server/internal/session"
)

// PoolSize is the fixed worker-pool size spec.md §4.8/§5 specifies.
const PoolSize = 10

// ShutdownDeadline is how long Stop waits for in-flight sessions to drain
// before force-closing their connections.
const ShutdownDeadline = 10 * time.Second

// Supervisor owns the listening socket, the worker pool, and the set of
// currently-open connections.
type Supervisor struct {
	addr     string
	registry *router.Registry
	version  string
	name     string
	log      *logger.Log
	reqLog   *logrus.Logger

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	ln      net.Listener
	sem     chan struct{}
	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped bool
}

// New builds a Supervisor bound to addr ("host:port"), dispatching through
// registry.
func New(addr string, registry *router.Registry, version, name string, log *logger.Log, reqLog *logrus.Logger) *Supervisor {
	return &Supervisor{
		addr:     addr,
		registry: registry,
		version:  version,
		name:     name,
		log:      log,
		reqLog:   reqLog,
		conns:    map[net.Conn]struct{}{},
		sem:      make(chan struct{}, PoolSize),
		stopCh:   make(chan struct{}),
	}
}

// Start opens the listening socket and begins accepting connections in the
// background. It returns once the socket is open; Serve-equivalent work
// happens in a goroutine.
func (s *Supervisor) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.stopCh = make(chan struct{})
	s.stopped = false
	s.mu.Unlock()

	s.log.Info("listener started", "addr", s.addr)
	go s.acceptLoop(ln, s.stopCh)
	return nil
}

// acceptLoop binds to the listener and stop signal captured at the moment
// it was started, so a concurrent .restart swapping s.ln/s.stopCh for the
// next generation never confuses this generation's loop into reading them.
func (s *Supervisor) acceptLoop(ln net.Listener, stopCh chan struct{}) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stopCh:
				return
			default:
				s.log.Error("accept failed", "error", err)
				continue
			}
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.sem <- struct{}{} // blocks until a worker slot is free, bounding concurrency to PoolSize
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Supervisor) serve(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		<-s.sem
		s.wg.Done()
	}()

	sess := session.New(conn, s.registry, s.version, s.name, s.reqLog)
	sess.Run()
}

// Connections returns a snapshot of open connections' remote addresses,
// for the admin console's ".connections" command.
func (s *Supervisor) Connections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c.RemoteAddr().String())
	}
	return out
}

// Stop stops accepting new connections by closing the listening socket,
// waits up to ShutdownDeadline for in-flight sessions to finish on their
// own, force-closes whatever is still open, and flushes every registered
// endpoint's store, in that order (spec.md §4.8).
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	if s.ln != nil {
		_ = s.ln.Close()
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(ShutdownDeadline):
		s.log.Warn("shutdown deadline exceeded, force-closing remaining connections")
	}

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	var flushErr error
	for _, ep := range s.registry.Endpoints() {
		if ep.Close == nil {
			continue
		}
		if err := ep.Close(); err != nil {
			flushErr = errors.Join(flushErr, err)
		}
	}
	return flushErr
}
