package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/desktopmtg/desktopmtg/internal/events"
)

func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialTestClient(t, hub)
	waitForClients(t, hub, 1)

	if !hub.Broadcast(Message{Type: "build:started", RunID: "run-1", Data: 3}) {
		t.Fatal("Broadcast returned false on a running hub")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "build:started" || msg.RunID != "run-1" {
		t.Errorf("message = %+v", msg)
	}
}

func TestHubStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestClient(t, hub)
	waitForClients(t, hub, 1)

	hub.Stop()
	waitForClients(t, hub, 0)

	if hub.Broadcast(Message{Type: "build:started"}) {
		t.Error("Broadcast returned true on a stopped hub")
	}

	// The client connection is closed by the hub.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected closed connection after Stop")
	}

	// Stop is idempotent.
	hub.Stop()
}

func TestObserverFiltersPerCardEvents(t *testing.T) {
	obs := NewObserver(NewHub())

	if obs.ShouldHandle(events.TypeCardScored) {
		t.Error("per-card scoring events should not stream to clients")
	}
	for _, typ := range []string{events.TypeBuildStarted, events.TypeTrialCompleted, events.TypeBuildCompleted} {
		if !obs.ShouldHandle(typ) {
			t.Errorf("%s should stream to clients", typ)
		}
	}
	if obs.GetName() != "websocket" {
		t.Errorf("GetName = %q", obs.GetName())
	}
}

func TestObserverForwardsEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialTestClient(t, hub)
	waitForClients(t, hub, 1)

	obs := NewObserver(hub)
	if err := obs.OnEvent(events.Event{Type: events.TypeBuildCompleted, RunID: "run-2", Data: 12.5}); err != nil {
		t.Fatalf("OnEvent: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != events.TypeBuildCompleted || msg.RunID != "run-2" {
		t.Errorf("message = %+v", msg)
	}
}
