package ws

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Uni298/Outdraw/game"
)

// Hub tracks which connections belong to which room so snapshots and
// room-scoped events can be fanned out. It holds no game state of its own.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	manager *game.Manager
	log     zerolog.Logger
}

func NewHub(manager *game.Manager, log zerolog.Logger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*client]struct{}),
		manager: manager,
		log:     log,
	}
}

func (h *Hub) register(roomID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	c.roomID = roomID
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[c.roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	c.roomID = ""
}

func (h *Hub) broadcast(roomID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		c.trySend(frame)
	}
}

// BroadcastState pushes the current room snapshot to all members. Wired as
// the manager's change callback so timer-driven transitions reach clients
// without a player action.
func (h *Hub) BroadcastState(roomID string) {
	state, err := h.manager.Snapshot(roomID)
	if err != nil {
		// Room already destroyed; nothing to push.
		return
	}
	h.broadcast(roomID, event("game-state", state))
}
