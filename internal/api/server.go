package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/shift"
)

const shutdownTimeout = 5 * time.Second

// Server serves the WebSocket endpoint and pushes session updates to every
// connected client. It implements the lifecycle Service contract: Start
// blocks until Stop is called.
type Server struct {
	logger  *zap.Logger
	session *shift.Session
	hub     *Hub
	httpSrv *http.Server
	done    chan struct{}
}

// NewServer creates a Server listening on addr for the given session.
//
// Precondition: session and logger must be non-nil.
func NewServer(addr string, session *shift.Session, logger *zap.Logger) *Server {
	s := &Server{
		logger:  logger,
		session: session,
		done:    make(chan struct{}),
	}
	s.hub = NewHub(logger, NewDispatcher(session, logger).Dispatch)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWs)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the hub, the session event forwarders, and the HTTP listener.
// It blocks until Stop is called or the listener fails.
func (s *Server) Start() error {
	go s.hub.Run(s.done)
	go s.forwardChanges()
	go s.forwardNotices()

	s.logger.Info("api server listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully and stops the hub.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Warn("api server shutdown failed", zap.Error(err))
	}
	close(s.done)
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWs(w, r)
	// New clients need a full view before the first state change; pushing
	// to everyone is harmless because snapshot renders are idempotent.
	s.broadcastSnapshot()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// forwardChanges pushes a fresh snapshot on every coalesced change signal.
func (s *Server) forwardChanges() {
	for {
		select {
		case <-s.session.Changes():
			s.broadcastSnapshot()
		case <-s.done:
			return
		}
	}
}

// forwardNotices relays session notices to connected clients.
func (s *Server) forwardNotices() {
	for {
		select {
		case notice := <-s.session.Notices():
			data, err := encodeMessage(Message{Type: "notice", Payload: notice})
			if err != nil {
				s.logger.Warn("encoding notice failed", zap.Error(err))
				continue
			}
			s.hub.Broadcast(data)
		case <-s.done:
			return
		}
	}
}

func (s *Server) broadcastSnapshot() {
	data, err := encodeMessage(Message{Type: "snapshot", Payload: s.session.Snapshot()})
	if err != nil {
		s.logger.Warn("encoding snapshot failed", zap.Error(err))
		return
	}
	s.hub.Broadcast(data)
}
