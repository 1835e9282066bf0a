// Package tcp binds the relay to its transport: a plain TCP listener with
// one goroutine per accepted connection and newline-delimited JSON frames.
package tcp

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"chat-relay/contract"
	"chat-relay/services"
)

// Server accepts connections indefinitely and starts exactly one Session
// per connection. There is no admission control; sessions are independent
// and unbounded.
type Server struct {
	log      *slog.Logger
	address  string
	identity services.IIdentityService
	relay    services.IRelayService
	registry contract.IRegistry

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

func NewServer(
	log *slog.Logger,
	address string,
	identity services.IIdentityService,
	relay services.IRelayService,
	registry contract.IRegistry,
) *Server {
	return &Server{
		log:      log,
		address:  address,
		identity: identity,
		relay:    relay,
		registry: registry,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Addr returns the bound listen address, usable once Run has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run implements contract.Worker. It blocks on the accept loop until the
// context is canceled, then closes the listener and every live connection
// and waits for the sessions to finish.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info("Relay listening", "address", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || goerrors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}
		s.track(conn)

		session := NewSession(s.log, conn, s.identity, s.relay, s.registry)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			session.Run()
		}()
	}

	s.closeConns()
	s.wg.Wait()
	s.log.Info("Relay stopped")
	return nil
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeConns unblocks every session's read loop; each session then runs its
// own cleanup path.
func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}
