// Package chat is the per-board realtime channel. The caller fetches
// message history once through the gateway, then dials a persistent
// websocket, subscribes to the board topic, and receives inbound
// messages de-duplicated by the (sender, content, timestamp) triple,
// a heuristic since the wire carries no message identifier. Sending is
// fire-and-forget: no acknowledgement, no ordering guarantee, and no
// retry when the connection is down at send time.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alvaro-cozano/organizer-cli/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024 * 1024
)

// envelope is the frame format on the websocket: a type tag, the board
// topic, and the chat payload.
type envelope struct {
	Type  string             `json:"type"`
	Topic string             `json:"topic,omitempty"`
	Data  models.ChatMessage `json:"data,omitempty"`
}

const (
	typeSubscribe = "subscribe"
	typeMessage   = "message"
	typeSend      = "send"
)

type dedupeKey struct {
	email, content, timestamp string
}

// Channel is one open board chat connection.
type Channel struct {
	conn    *websocket.Conn
	boardID int64
	logger  *slog.Logger

	inbound  chan models.ChatMessage
	outgoing chan envelope

	mu     sync.Mutex
	seen   map[dedupeKey]bool
	closed bool
	done   chan struct{}
}

// URLFromBase derives the websocket endpoint from the REST base URL:
// scheme swapped to ws(s), path /ws.
func URLFromBase(base string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("chat: invalid base URL %q: %w", base, err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws"
	return parsed.String(), nil
}

// Dial opens the board channel and subscribes to its topic. history
// seeds the de-duplication set so replayed messages are not delivered
// twice.
func Dial(ctx context.Context, wsURL string, boardID int64, history []models.ChatMessage, logger *slog.Logger) (*Channel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("chat: dial %s: %w", wsURL, err)
	}

	ch := &Channel{
		conn:     conn,
		boardID:  boardID,
		logger:   logger,
		inbound:  make(chan models.ChatMessage, 64),
		outgoing: make(chan envelope, 16),
		seen:     make(map[dedupeKey]bool),
		done:     make(chan struct{}),
	}
	for _, msg := range history {
		ch.seen[keyOf(msg)] = true
	}

	subscribe := envelope{Type: typeSubscribe, Topic: ch.topic()}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return nil, fmt.Errorf("chat: subscribe board %d: %w", boardID, err)
	}

	go ch.readPump()
	go ch.writePump()
	return ch, nil
}

func (c *Channel) topic() string {
	return fmt.Sprintf("/topic/board.%d", c.boardID)
}

// Messages is the stream of de-duplicated inbound messages. Closed when
// the connection ends.
func (c *Channel) Messages() <-chan models.ChatMessage {
	return c.inbound
}

// Send publishes to the board destination. If the connection is down or
// the outgoing buffer is full the message is dropped; there is no retry.
// The message is recorded in the de-duplication set so the server's
// broadcast of it back to this client is not delivered again.
func (c *Channel) Send(msg models.ChatMessage) {
	msg.BoardID = c.boardID
	c.mu.Lock()
	c.seen[keyOf(msg)] = true
	c.mu.Unlock()
	frame := envelope{Type: typeSend, Topic: fmt.Sprintf("/app/chat/%d", c.boardID), Data: msg}
	select {
	case c.outgoing <- frame:
	case <-c.done:
		c.logger.Warn("chat send dropped, channel closed", "board_id", c.boardID)
	default:
		c.logger.Warn("chat send dropped, buffer full", "board_id", c.boardID)
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()
	return c.conn.Close()
}

// readPump pumps frames off the websocket into the inbound channel.
func (c *Channel) readPump() {
	defer func() {
		c.Close()
		close(c.inbound)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("chat read", "board_id", c.boardID, "err", err)
			}
			return
		}

		var frame envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Warn("chat frame unmarshal", "err", err)
			continue
		}
		if frame.Type != typeMessage {
			continue
		}
		if c.duplicate(frame.Data) {
			continue
		}

		select {
		case c.inbound <- frame.Data:
		default:
			// Receiver is not draining; drop rather than block the pump.
			c.logger.Warn("chat inbound dropped, buffer full", "board_id", c.boardID)
		}
	}
}

// writePump serializes writes: outgoing frames and keepalive pings.
func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Channel) duplicate(msg models.ChatMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := keyOf(msg)
	if c.seen[key] {
		return true
	}
	c.seen[key] = true
	return false
}

func keyOf(msg models.ChatMessage) dedupeKey {
	return dedupeKey{email: msg.Email, content: msg.Content, timestamp: msg.Timestamp}
}
