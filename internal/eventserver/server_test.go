package eventserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/petems/hotkey-bridge/internal/events"
	"github.com/rs/zerolog"
)

func startServer(t *testing.T) (*Server, *events.Bus) {
	t.Helper()
	bus := events.New(zerolog.Nop())
	srv := New("127.0.0.1:0", bus, zerolog.Nop())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv, bus
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(srv.URL(), nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", srv.URL(), err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// emitUntilDelivered retries until the connection handler has subscribed.
func emitUntilDelivered(t *testing.T, bus *events.Bus, name string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := bus.Emit(name, nil); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no subscriber appeared for event")
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage returned error: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("expected TextMessage (%d), got %d", websocket.TextMessage, msgType)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal %q: %v", data, err)
	}
	return msg
}

func TestServerStreamsEvents(t *testing.T) {
	srv, bus := startServer(t)
	conn := dial(t, srv)

	emitUntilDelivered(t, bus, events.ShortcutTriggered)

	msg := readMessage(t, conn)
	if msg.Event != events.ShortcutTriggered {
		t.Errorf("event = %q, want %q", msg.Event, events.ShortcutTriggered)
	}
	if msg.Payload != nil {
		t.Errorf("payload = %v, want null", msg.Payload)
	}
	if msg.ID == "" {
		t.Error("message has no id")
	}
}

func TestServerUnsubscribesOnDisconnect(t *testing.T) {
	srv, bus := startServer(t)
	conn := dial(t, srv)
	emitUntilDelivered(t, bus, "ping")
	readMessage(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := bus.Emit("ping", nil); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("subscription still active after client disconnected")
}

func TestServerStopClosesClients(t *testing.T) {
	srv, bus := startServer(t)
	conn := dial(t, srv)
	emitUntilDelivered(t, bus, "ping")
	readMessage(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage error = %v, want close going away", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	srv := New("", events.New(zerolog.Nop()), zerolog.Nop())
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start returned %v", err)
	}
	if srv.URL() != "" {
		t.Errorf("URL() before Start = %q, want empty", srv.URL())
	}
}
