package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/websocket"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.errors <- err
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

func (c *WSClient) send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send %s: %v", msgType, err)
	}
}

// Subscribe starts watching a session. The server answers with SESSION_STATE.
func (c *WSClient) Subscribe(sessionID uuid.UUID) {
	c.send(websocket.MessageTypeSubscribe, websocket.SubscribePayload{SessionID: sessionID.String()})
}

func (c *WSClient) Unsubscribe(sessionID uuid.UUID) {
	c.send(websocket.MessageTypeUnsubscribe, websocket.SubscribePayload{SessionID: sessionID.String()})
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectSessionState waits for and decodes a SESSION_STATE message
func (c *WSClient) ExpectSessionState(timeout time.Duration) *domain.Summary {
	c.t.Helper()
	return c.decodeSummary(c.ExpectMessage(websocket.MessageTypeSessionState, timeout))
}

// ExpectSessionClosed waits for and decodes a SESSION_CLOSED message
func (c *WSClient) ExpectSessionClosed(timeout time.Duration) *domain.Summary {
	c.t.Helper()
	return c.decodeSummary(c.ExpectMessage(websocket.MessageTypeSessionClosed, timeout))
}

func (c *WSClient) decodeSummary(msg *websocket.Message) *domain.Summary {
	c.t.Helper()

	var summary domain.Summary
	if err := json.Unmarshal(msg.Payload, &summary); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msg.Type, err)
	}
	return &summary
}

// ExpectWarning waits for and decodes a WARNING message
func (c *WSClient) ExpectWarning(timeout time.Duration) *websocket.WarningPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeWarning, timeout)

	var payload websocket.WarningPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode warning payload: %v", err)
	}

	return &payload
}

// ExpectQueuePing waits for and decodes a QUEUE_PING message
func (c *WSClient) ExpectQueuePing(timeout time.Duration) *websocket.QueuePingPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeQueuePing, timeout)

	var payload websocket.QueuePingPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode queue ping payload: %v", err)
	}

	return &payload
}

// ExpectErrorWithCode waits for an ERROR message carrying code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeError, timeout)

	var payload websocket.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode error payload: %v", err)
	}
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s (%s)", code, payload.Code, payload.Message)
	}

	return &payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg, ok := <-c.messages:
		if ok {
			c.t.Fatalf("expected no message, got %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}
