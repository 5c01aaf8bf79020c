package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Server exposes live verification events over a WebSocket
// endpoint, plus dashboard and health endpoints for pollers.
type Server struct {
	mu        sync.Mutex
	collector *Collector
	dashboard *Dashboard
	clients   map[*websocket.Conn]struct{}
	addr      string
	server    *http.Server
	upgrader  websocket.Upgrader
}

// NewServer creates a monitor server. Events emitted on the
// collector are broadcast to every connected client.
func NewServer(addr string, collector *Collector, dashboard *Dashboard) *Server {
	return &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		clients:   make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// The dashboard is served from elsewhere during
			// authoring; cross-origin upgrades are expected.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start begins serving and blocks until the context is canceled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	s.collector.OnEvent(func(event Event) {
		s.dashboard.UpdateFromEvent(event)
		s.broadcast(event)
	})

	go func() {
		<-ctx.Done()
		s.server.Close()
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	history := s.collector.Events()
	s.mu.Unlock()

	// Replay retained history so a late dashboard catches up.
	for _, event := range history {
		if err := conn.WriteJSON(event); err != nil {
			s.drop(conn)
			return
		}
	}

	// The read loop exists to observe the close handshake.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}

func (s *Server) broadcast(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn.Close()
	delete(s.clients, conn)
}
