package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/session-sentry/sentry/internal/session"
	"github.com/session-sentry/sentry/internal/wts"
)

// dialTestClient upgrades a real websocket connection against the
// broadcaster and returns it.
func dialTestClient(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		b.AddClient(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestSnapshotOnConnect(t *testing.T) {
	store := session.NewStore(16)
	store.Record(wts.Logon, time.Now())
	b := NewBroadcaster(store, 0)

	conn := dialTestClient(t, b)

	msg := readMessage(t, conn)
	if msg.Type != MsgSnapshot {
		t.Fatalf("first message type = %q, want snapshot", msg.Type)
	}

	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		t.Fatalf("re-marshal payload: %v", err)
	}
	var snap SnapshotPayload
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(snap.Recent) != 1 || snap.Recent[0].Event != wts.Logon {
		t.Errorf("snapshot recent = %+v, want one logon", snap.Recent)
	}
}

func TestPublishReachesClients(t *testing.T) {
	store := session.NewStore(16)
	b := NewBroadcaster(store, 0)

	conn := dialTestClient(t, b)
	readMessage(t, conn) // discard connect snapshot

	rec := store.Record(wts.Lock, time.Now())
	b.Publish(rec)

	msg := readMessage(t, conn)
	if msg.Type != MsgEvent {
		t.Fatalf("message type = %q, want event", msg.Type)
	}

	payload, _ := json.Marshal(msg.Payload)
	var ev EventPayload
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ev.Record.Event != wts.Lock {
		t.Errorf("event = %v, want lock", ev.Record.Event)
	}
	if ev.Record.Seq != rec.Seq {
		t.Errorf("seq = %d, want %d", ev.Record.Seq, rec.Seq)
	}
}

func TestClientCount(t *testing.T) {
	store := session.NewStore(16)
	b := NewBroadcaster(store, 0)

	if got := b.ClientCount(); got != 0 {
		t.Fatalf("ClientCount = %d, want 0", got)
	}

	dialTestClient(t, b)
	dialTestClient(t, b)

	deadline := time.Now().Add(5 * time.Second)
	for b.ClientCount() != 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := b.ClientCount(); got != 2 {
		t.Errorf("ClientCount = %d, want 2", got)
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	store := session.NewStore(16)
	b := NewBroadcaster(store, 0)

	dialTestClient(t, b)

	deadline := time.Now().Add(5 * time.Second)
	for b.ClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	b.mu.RLock()
	var c *client
	for cl := range b.clients {
		c = cl
	}
	b.mu.RUnlock()
	if c == nil {
		t.Fatal("no client registered")
	}

	b.RemoveClient(c)
	b.RemoveClient(c) // second call must not close the channel twice

	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
}
