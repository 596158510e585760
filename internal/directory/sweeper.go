package directory

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically evicts empty rooms from a Directory. It implements
// the server lifecycle Service interface.
type Sweeper struct {
	dir      *Directory
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a Sweeper for the given directory.
//
// Precondition: dir and logger must be non-nil; interval > 0.
func NewSweeper(dir *Directory, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		dir:      dir,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop. It blocks until Stop is called.
func (s *Sweeper) Start() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// A room younger than one interval may still be waiting on
			// its creator's first connection.
			if removed := s.dir.Sweep(s.interval); removed > 0 {
				s.logger.Info("sweep complete",
					zap.Int("removed", removed),
					zap.Int("remaining", s.dir.Count()),
				)
			}
		case <-s.done:
			return nil
		}
	}
}

// Stop terminates the sweep loop. Safe to call multiple times.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
