package websocket

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
)

const snapshotTimeout = 5 * time.Second

// SnapshotSource supplies the current view of a session to new subscribers.
type SnapshotSource interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Summary, error)
}

// Hub fans session events out to the clients watching each session.
// It satisfies service.Notifier.
//
// Session states are published from whichever goroutine ran the command, so
// they can reach the hub out of order. The hub remembers the newest version it
// delivered per session and drops anything older.
type Hub struct {
	sessions   map[uuid.UUID]map[*Client]bool
	versions   map[uuid.UUID]uint64
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscriptionRequest
	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{} // closed when Run() exits
	stopped    bool
	snapshots  SnapshotSource
	mu         sync.RWMutex
}

type subscriptionRequest struct {
	client    *Client
	sessionID uuid.UUID
	subscribe bool
}

func NewHub(snapshots SnapshotSource) *Hub {
	return &Hub{
		sessions:   make(map[uuid.UUID]map[*Client]bool),
		versions:   make(map[uuid.UUID]uint64),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscriptionRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		snapshots:  snapshots,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.sessions = make(map[uuid.UUID]map[*Client]bool)
			h.versions = make(map[uuid.UUID]uint64)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				client.Close()
			} else {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for _, id := range client.watching() {
					h.dropLocked(id, client)
				}
				client.Close()
			}
			h.mu.Unlock()

		case req := <-h.subscribe:
			h.handleSubscription(req)
		}
	}
}

// Stop closes every client and blocks until Run has returned.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) requestSubscription(req subscriptionRequest) {
	select {
	case h.subscribe <- req:
	case <-h.done:
	}
}

// handleSubscription holds the write lock across the snapshot read so that no
// broadcast for the session can slip between the snapshot and the subscribe.
// States older than the snapshot that arrive later are dropped by version.
func (h *Hub) handleSubscription(req subscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || !h.clients[req.client] {
		return
	}

	if !req.subscribe {
		h.dropLocked(req.sessionID, req.client)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	summary, err := h.snapshots.Get(ctx, req.sessionID)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			req.client.sendError("SESSION_NOT_FOUND", "Session does not exist")
		} else {
			log.Printf("ERROR [Hub.handleSubscription] session=%s: %v", req.sessionID, err)
			req.client.sendError("INTERNAL_ERROR", "Session did not respond")
		}
		return
	}

	subs, ok := h.sessions[req.sessionID]
	if !ok {
		subs = make(map[*Client]bool)
		h.sessions[req.sessionID] = subs
	}
	subs[req.client] = true
	req.client.watch(req.sessionID, true)
	if summary.Version > h.versions[req.sessionID] {
		h.versions[req.sessionID] = summary.Version
	}

	if msg, err := NewMessage(MessageTypeSessionState, summary); err == nil {
		req.client.Send(msg)
	}
}

func (h *Hub) dropLocked(id uuid.UUID, client *Client) {
	client.watch(id, false)
	subs, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.sessions, id)
		delete(h.versions, id)
	}
}

// Subscribers reports how many clients watch a session.
func (h *Hub) Subscribers(id uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[id])
}

func (h *Hub) broadcast(id uuid.UUID, msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("ERROR [Hub.broadcast] session=%s type=%s: %v", id, msgType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.sessions[id] {
		client.Send(msg)
	}
}

// SessionUpdated sends summary unless a newer state was already delivered.
func (h *Hub) SessionUpdated(summary domain.Summary) {
	msg, err := NewMessage(MessageTypeSessionState, summary)
	if err != nil {
		log.Printf("ERROR [Hub.SessionUpdated] session=%s: %v", summary.SessionID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := summary.SessionID
	subs := h.sessions[id]
	if len(subs) == 0 || summary.Version < h.versions[id] {
		return
	}
	h.versions[id] = summary.Version
	for client := range subs {
		client.Send(msg)
	}
}

// SessionClosed sends the final view and forgets the session's subscribers.
func (h *Hub) SessionClosed(summary domain.Summary) {
	h.broadcast(summary.SessionID, MessageTypeSessionClosed, summary)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.sessions[summary.SessionID] {
		client.watch(summary.SessionID, false)
	}
	delete(h.sessions, summary.SessionID)
	delete(h.versions, summary.SessionID)
}

func (h *Hub) Ping(id uuid.UUID, text string) {
	h.broadcast(id, MessageTypeQueuePing, QueuePingPayload{SessionID: id, Text: text})
}

func (h *Hub) Warn(id uuid.UUID, message string) {
	h.broadcast(id, MessageTypeWarning, WarningPayload{SessionID: id, Message: message})
}

func (h *Hub) ShowProfile(id uuid.UUID, playerID domain.PlayerID, totals []*domain.PlayerTotals) {
	h.broadcast(id, MessageTypePlayerProfile, PlayerProfilePayload{
		SessionID: id,
		PlayerID:  playerID,
		Totals:    totals,
	})
}
