// Package eventserver streams application events to local frontends over
// WebSocket.
package eventserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/petems/hotkey-bridge/internal/events"
	"github.com/rs/zerolog"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 30 * time.Second
	readDeadline  = 3 * pingInterval

	maxReadMessageSize = 1024
)

// Path is the WebSocket endpoint.
const Path = "/events"

// The server binds to localhost only, so any origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Message is the JSON frame sent for every event.
type Message struct {
	ID      string    `json:"id"`
	Event   string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Server forwards every bus event to each connected client.
type Server struct {
	addr string
	bus  *events.Bus
	log  zerolog.Logger

	listener net.Listener
	server   *http.Server
	url      string

	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a server for addr. Use "127.0.0.1:0" for an OS-assigned port.
func New(addr string, bus *events.Bus, log zerolog.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	return &Server{addr: addr, bus: bus, log: log, quit: make(chan struct{})}
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("event server listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.url = "ws://" + ln.Addr().String() + Path

	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleEvents)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Event server stopped")
		}
	}()

	s.log.Info().Str("url", s.url).Msg("Event server listening")
	return nil
}

// URL returns the WebSocket URL. Empty before Start.
func (s *Server) URL() string {
	return s.url
}

// Stop shuts the server down and waits for client handlers to exit.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		if s.server == nil {
			return
		}
		err = s.server.Shutdown(ctx)
		// Shutdown does not track hijacked connections.
		close(s.quit)
		s.wg.Wait()
	})
	return err
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Counted before the upgrade so Stop cannot miss a connection.
	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := s.bus.Subscribe()
	defer sub.Close()

	log := s.log.With().Str("remote", r.RemoteAddr).Str("subscription", sub.ID()).Logger()
	log.Debug().Msg("Event client connected")

	done := make(chan struct{})
	go s.readLoop(conn, done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Debug().Msg("Event client disconnected")
			return
		case <-s.quit:
			s.closeConn(conn)
			return
		case ev, ok := <-sub.C():
			if !ok {
				s.closeConn(conn)
				return
			}
			if err := s.writeEvent(conn, ev); err != nil {
				log.Debug().Err(err).Msg("Dropping event client")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				log.Debug().Err(err).Msg("Ping failed")
				return
			}
		}
	}
}

// readLoop discards client frames and detects disconnects.
func (s *Server) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxReadMessageSize)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeEvent(conn *websocket.Conn, ev events.Event) error {
	data, err := json.Marshal(Message{
		ID:      ev.ID,
		Event:   ev.Name,
		Payload: ev.Payload,
		At:      ev.At,
	})
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeDeadline))
}
