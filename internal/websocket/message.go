package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe   MessageType = "SUBSCRIBE"
	MessageTypeUnsubscribe MessageType = "UNSUBSCRIBE"

	// Server to Client
	MessageTypeSessionState  MessageType = "SESSION_STATE"
	MessageTypeSessionClosed MessageType = "SESSION_CLOSED"
	MessageTypeQueuePing     MessageType = "QUEUE_PING"
	MessageTypeWarning       MessageType = "WARNING"
	MessageTypePlayerProfile MessageType = "PLAYER_PROFILE"
	MessageTypeError         MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SubscribePayload struct {
	SessionID string `json:"sessionId"`
}

// Server to Client payloads

// SESSION_STATE and SESSION_CLOSED carry a domain.Summary directly.

type QueuePingPayload struct {
	SessionID uuid.UUID `json:"sessionId"`
	Text      string    `json:"text"`
}

type WarningPayload struct {
	SessionID uuid.UUID `json:"sessionId"`
	Message   string    `json:"message"`
}

type PlayerProfilePayload struct {
	SessionID uuid.UUID              `json:"sessionId"`
	PlayerID  domain.PlayerID        `json:"playerId"`
	Totals    []*domain.PlayerTotals `json:"totals"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
