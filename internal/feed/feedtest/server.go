// Package feedtest provides a fake Binance ticker stream for tests.
package feedtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// TickerStreamPath is the route serving the all-market ticker array.
const TickerStreamPath = "/ws/!ticker@arr"

// Server accepts WebSocket subscribers on /ws/{stream} and lets tests push raw frames to them.
type Server struct {
	mu        sync.Mutex
	http      *httptest.Server
	upgrader  websocket.Upgrader
	conns     map[*websocket.Conn]struct{}
	streams   []string
	connected chan struct{}
}

// NewServer starts a fake stream server on a random local port.
func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		conns:     make(map[*websocket.Conn]struct{}),
		connected: make(chan struct{}, 16),
	}

	router := mux.NewRouter()
	router.HandleFunc("/ws/{stream}", s.handleWebSocket)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.http = httptest.NewServer(router)

	return s
}

// URL returns the ws:// URL of the ticker stream.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http") + TickerStreamPath
}

// WaitForConnection blocks until a subscriber connects or the timeout elapses.
func (s *Server) WaitForConnection(timeout time.Duration) bool {
	select {
	case <-s.connected:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Connections returns the number of live subscribers.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conns)
}

// Streams returns the stream names subscribers asked for, in connection order.
func (s *Server) Streams() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.streams...)
}

// Send writes one text frame to every subscriber.
func (s *Server) Send(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return err
		}
	}

	return nil
}

// DropConnections closes every subscriber socket without a close handshake.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}

// Close drops all subscribers and stops the server.
func (s *Server) Close() {
	s.DropConnections()
	s.http.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	stream := mux.Vars(r)["stream"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.streams = append(s.streams, stream)
	s.mu.Unlock()

	select {
	case s.connected <- struct{}{}:
	default:
	}

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	// Drain control frames until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
