package room

import (
	"sync"
	"time"
)

// TurnTimer fires a callback when the guess-time limit elapses unless reset
// or stopped first. The gateway arms one per playing room to auto-advance
// turns. It is safe for concurrent use.
//
// A callback that has already begun running when Reset or Stop is called may
// still complete; the action it performs must therefore be guarded against
// going stale, which is what Room.AdvanceTurnFrom provides.
type TurnTimer struct {
	mu sync.Mutex
	// gen invalidates pending callbacks: each Reset or Stop bumps it, and
	// a callback runs only if the generation it was armed under is still
	// current.
	gen   uint64
	timer *time.Timer
}

// NewTurnTimer creates and starts a timer that calls onFire after duration.
// onFire runs on its own goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
func NewTurnTimer(duration time.Duration, onFire func()) *TurnTimer {
	tt := &TurnTimer{}
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.armLocked(duration, onFire)
	return tt
}

// Reset invalidates the pending callback and arms the timer for a fresh
// duration and callback.
//
// Precondition: duration > 0; onFire must not be nil.
func (tt *TurnTimer) Reset(duration time.Duration, onFire func()) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.gen++
	tt.timer.Stop()
	tt.armLocked(duration, onFire)
}

// Stop invalidates the pending callback. Safe to call multiple times.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.gen++
	tt.timer.Stop()
}

func (tt *TurnTimer) armLocked(duration time.Duration, onFire func()) {
	gen := tt.gen
	tt.timer = time.AfterFunc(duration, func() {
		tt.mu.Lock()
		current := tt.gen == gen
		tt.mu.Unlock()
		if current {
			onFire()
		}
	})
}
