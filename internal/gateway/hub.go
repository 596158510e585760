package gateway

import (
	"sync"

	"go.uber.org/zap"
)

// hub tracks the connected clients of every room and fans broadcasts out
// to them. It knows nothing about game rules; the gateway decides what to
// send and the hub delivers it.
type hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	logger *zap.Logger
}

func newHub(logger *zap.Logger) *hub {
	return &hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger,
	}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.roomCode]
	if !ok {
		set = make(map[*client]struct{})
		h.rooms[c.roomCode] = set
	}
	set[c] = struct{}{}
}

// unregister removes the client and reports how many clients remain in
// its room.
func (h *hub) unregister(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.roomCode]
	if !ok {
		return 0
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.rooms, c.roomCode)
		return 0
	}
	return len(set)
}

// broadcast pushes an encoded frame to every client in the room. Clients
// whose buffers are full are closed rather than allowed to stall the rest
// of the room.
func (h *hub) broadcast(roomCode string, data []byte) {
	h.mu.RLock()
	var stalled []*client
	for c := range h.rooms[roomCode] {
		if !c.push(data) {
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.logger.Warn("client send buffer full, disconnecting",
			zap.String("player_id", c.playerID),
			zap.String("room_code", roomCode),
		)
		c.close()
	}
}

// sendTo pushes a frame to a single client.
func (h *hub) sendTo(c *client, data []byte) {
	if !c.push(data) {
		c.close()
	}
}

func (h *hub) clientCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}
