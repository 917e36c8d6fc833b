package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event types pushed to branch rooms
const (
	EventOrderCreated      = "order.created"
	EventOrderUpdated      = "order.updated"
	EventOrdersInvalidated = "orders.invalidated"
)

// Event is the JSON frame sent to subscribers
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type branchEvent struct {
	branchID uuid.UUID
	frame    []byte
}

// Hub fans events out to the websocket clients of each branch
type Hub struct {
	rooms map[uuid.UUID]map[*Client]struct{}
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan branchEvent
}

// NewHub creates a hub; call Run to start it
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan branchEvent, 256),
	}
}

// Run processes registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			room := h.rooms[c.branchID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[c.branchID] = room
			}
			room[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[ev.branchID] {
				select {
				case c.send <- ev.frame:
				default:
					// slow consumer
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for every client of branchID. It never blocks;
// when the queue is full the event is dropped and clients refetch on their
// next interaction.
func (h *Hub) Publish(branchID uuid.UUID, eventType string, payload interface{}) {
	ev := Event{Type: eventType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("event", eventType).Msg("realtime: marshal payload")
			return
		}
		ev.Payload = raw
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- branchEvent{branchID: branchID, frame: frame}:
	default:
		log.Warn().Str("event", eventType).Str("branch_id", branchID.String()).Msg("realtime: broadcast queue full, event dropped")
	}
}

// Subscribers returns how many clients are connected to a branch
func (h *Hub) Subscribers(branchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[branchID])
}

// drop removes c from its room; callers hold h.mu
func (h *Hub) drop(c *Client) {
	room, ok := h.rooms[c.branchID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.branchID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for c := range room {
			h.drop(c)
		}
	}
}
