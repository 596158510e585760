// Package directory tracks all live rooms by room code: creation, lookup,
// and eviction. It guarantees at most one room per code.
package directory

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkelleher/sketchparty/internal/game/rng"
	"github.com/mkelleher/sketchparty/internal/game/room"
)

// maxCodeAttempts bounds collision retries during creation. The code space
// is 62^7, so more than one retry is already vanishingly unlikely.
const maxCodeAttempts = 10

// Directory provides thread-safe access to the live room set, keyed by room
// code. Rooms run fully in parallel; the directory is the only state they
// share.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[string]*room.Room
	src    rng.Source
	logger *zap.Logger
}

// New creates an empty Directory.
//
// Precondition: src and logger must be non-nil.
func New(src rng.Source, logger *zap.Logger) *Directory {
	return &Directory{
		rooms:  make(map[string]*room.Room),
		src:    src,
		logger: logger,
	}
}

// Create builds a new room from the given settings and registers it under
// its generated code, retrying on the (astronomically rare) code collision.
//
// Postcondition: Returns a registered Lobby-state room, or an error if the
// settings are invalid or no free code was found.
func (d *Directory) Create(settings room.Settings) (*room.Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		r, err := room.New(settings, d.src)
		if err != nil {
			return nil, fmt.Errorf("creating room: %w", err)
		}
		if _, taken := d.rooms[r.Code()]; taken {
			d.logger.Warn("room code collision, retrying",
				zap.String("code", r.Code()),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		d.rooms[r.Code()] = r
		d.logger.Info("room created",
			zap.String("room_id", r.ID()),
			zap.String("code", r.Code()),
			zap.Int("total_rooms", len(d.rooms)),
		)
		return r, nil
	}
	return nil, fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

// Lookup returns the room registered under code.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (d *Directory) Lookup(code string) (*room.Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[code]
	return r, ok
}

// Remove evicts the room registered under code. Returns whether a room was
// removed.
func (d *Directory) Remove(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[code]; !ok {
		return false
	}
	delete(d.rooms, code)
	d.logger.Info("room removed",
		zap.String("code", code),
		zap.Int("total_rooms", len(d.rooms)),
	)
	return true
}

// Count returns the number of live rooms.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// Sweep evicts empty rooms at least minAge old and returns how many were
// removed. The gateway removes rooms eagerly on last disconnect; the sweep
// is the backstop for rooms that were created but never joined. minAge gives
// a freshly created room time for its creator's first connection.
func (d *Directory) Sweep(minAge time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for code, r := range d.rooms {
		if r.Empty() && time.Since(r.CreatedAt()) >= minAge {
			delete(d.rooms, code)
			removed++
			d.logger.Info("empty room swept",
				zap.String("room_id", r.ID()),
				zap.String("code", code),
			)
		}
	}
	return removed
}
