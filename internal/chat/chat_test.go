package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

// chatServer upgrades one websocket connection and exposes its frames.
type chatServer struct {
	server *httptest.Server
	conns  chan *websocket.Conn
}

func newChatServer(t *testing.T) *chatServer {
	t.Helper()
	upgrader := websocket.Upgrader{}
	cs := &chatServer{conns: make(chan *websocket.Conn, 1)}
	cs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		cs.conns <- conn
	}))
	t.Cleanup(cs.server.Close)
	return cs
}

func (cs *chatServer) wsURL() string {
	return "ws" + strings.TrimPrefix(cs.server.URL, "http")
}

func (cs *chatServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-cs.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no websocket connection arrived")
		return nil
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame envelope
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func receive(t *testing.T, ch *Channel) models.ChatMessage {
	t.Helper()
	select {
	case msg, ok := <-ch.Messages():
		if !ok {
			t.Fatal("inbound channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return models.ChatMessage{}
	}
}

func TestURLFromBase(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://api.example.com", "wss://api.example.com/ws"},
		{"https://api.example.com/", "wss://api.example.com/ws"},
		{"http://host/prefix", "ws://host/prefix/ws"},
	}
	for _, tt := range tests {
		got, err := URLFromBase(tt.base)
		if err != nil {
			t.Fatalf("URLFromBase(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("URLFromBase(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestDialSubscribesToBoardTopic(t *testing.T) {
	cs := newChatServer(t)

	ch, err := Dial(context.Background(), cs.wsURL(), 42, nil, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	conn := cs.accept(t)
	defer conn.Close()

	frame := readFrame(t, conn)
	if frame.Type != typeSubscribe {
		t.Errorf("frame type = %q, want subscribe", frame.Type)
	}
	if frame.Topic != "/topic/board.42" {
		t.Errorf("topic = %q, want /topic/board.42", frame.Topic)
	}
}

func TestSendUsesAppDestination(t *testing.T) {
	cs := newChatServer(t)
	ch, err := Dial(context.Background(), cs.wsURL(), 7, nil, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	conn := cs.accept(t)
	defer conn.Close()
	readFrame(t, conn) // subscribe

	ch.Send(models.ChatMessage{Email: "a@b.c", Content: "hello"})

	frame := readFrame(t, conn)
	if frame.Type != typeSend {
		t.Errorf("frame type = %q, want send", frame.Type)
	}
	if frame.Topic != "/app/chat/7" {
		t.Errorf("topic = %q, want /app/chat/7", frame.Topic)
	}
	if frame.Data.BoardID != 7 {
		t.Errorf("board id = %d, want 7 stamped on send", frame.Data.BoardID)
	}
	if frame.Data.Content != "hello" {
		t.Errorf("content = %q, want hello", frame.Data.Content)
	}
}

func TestInboundDeliveryAndDeduplication(t *testing.T) {
	cs := newChatServer(t)

	history := []models.ChatMessage{
		{Email: "a@b.c", Content: "from history", Timestamp: "2025-03-14 09:00:00"},
	}
	ch, err := Dial(context.Background(), cs.wsURL(), 1, history, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	conn := cs.accept(t)
	defer conn.Close()
	readFrame(t, conn) // subscribe

	fresh := models.ChatMessage{Email: "b@c.d", Content: "new", Timestamp: "2025-03-14 09:01:00"}
	// a replay of a history message must not be delivered
	replay := envelope{Type: typeMessage, Topic: "/topic/board.1", Data: history[0]}
	if err := conn.WriteJSON(replay); err != nil {
		t.Fatalf("write replay: %v", err)
	}
	if err := conn.WriteJSON(envelope{Type: typeMessage, Topic: "/topic/board.1", Data: fresh}); err != nil {
		t.Fatalf("write fresh: %v", err)
	}
	// the same frame twice is delivered once
	if err := conn.WriteJSON(envelope{Type: typeMessage, Topic: "/topic/board.1", Data: fresh}); err != nil {
		t.Fatalf("write duplicate: %v", err)
	}
	follow := models.ChatMessage{Email: "b@c.d", Content: "follow-up", Timestamp: "2025-03-14 09:02:00"}
	if err := conn.WriteJSON(envelope{Type: typeMessage, Topic: "/topic/board.1", Data: follow}); err != nil {
		t.Fatalf("write follow-up: %v", err)
	}

	if got := receive(t, ch); got.Content != "new" {
		t.Errorf("first delivery = %q, want new (history replay skipped)", got.Content)
	}
	if got := receive(t, ch); got.Content != "follow-up" {
		t.Errorf("second delivery = %q, want follow-up (duplicate skipped)", got.Content)
	}
}

func TestOwnBroadcastNotDeliveredBack(t *testing.T) {
	cs := newChatServer(t)
	ch, err := Dial(context.Background(), cs.wsURL(), 3, nil, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	conn := cs.accept(t)
	defer conn.Close()
	readFrame(t, conn) // subscribe

	mine := models.ChatMessage{Email: "me@x.y", Content: "hi", Timestamp: "2025-03-14 11:00:00"}
	ch.Send(mine)

	// the server echoes the send frame back to every subscriber,
	// the sender included
	sent := readFrame(t, conn)
	if err := conn.WriteJSON(envelope{Type: typeMessage, Topic: "/topic/board.3", Data: sent.Data}); err != nil {
		t.Fatalf("write broadcast: %v", err)
	}
	other := models.ChatMessage{Email: "peer@x.y", Content: "hey", Timestamp: "2025-03-14 11:00:01"}
	if err := conn.WriteJSON(envelope{Type: typeMessage, Topic: "/topic/board.3", Data: other}); err != nil {
		t.Fatalf("write peer message: %v", err)
	}

	if got := receive(t, ch); got.Email != "peer@x.y" {
		t.Errorf("delivered %q from %q, want the peer message only (own broadcast skipped)", got.Content, got.Email)
	}
}

func TestNonMessageFramesIgnored(t *testing.T) {
	cs := newChatServer(t)
	ch, err := Dial(context.Background(), cs.wsURL(), 1, nil, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	conn := cs.accept(t)
	defer conn.Close()
	readFrame(t, conn) // subscribe

	ack := envelope{Type: "ack", Topic: "/topic/board.1"}
	if err := conn.WriteJSON(ack); err != nil {
		t.Fatalf("write ack: %v", err)
	}
	actual := models.ChatMessage{Email: "x@y.z", Content: "actual", Timestamp: "2025-03-14 10:00:00"}
	if err := conn.WriteJSON(envelope{Type: typeMessage, Data: actual}); err != nil {
		t.Fatalf("write message: %v", err)
	}

	if got := receive(t, ch); got.Content != "actual" {
		t.Errorf("delivered %q, want the message frame only", got.Content)
	}
}

func TestCloseIsIdempotentAndEndsDelivery(t *testing.T) {
	cs := newChatServer(t)
	ch, err := Dial(context.Background(), cs.wsURL(), 1, nil, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	conn := cs.accept(t)
	defer conn.Close()

	if err := ch.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	select {
	case _, ok := <-ch.Messages():
		if ok {
			t.Error("unexpected message after close")
		}
	case <-time.After(2 * time.Second):
		t.Error("inbound channel not closed after Close")
	}
}
