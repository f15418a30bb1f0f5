// Package worker runs the background maintenance of the review engine.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/nmoreau/wordflash/internal/clock"
	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/repository"
)

// Sweeper periodically interrupts review sessions that have been running
// longer than the staleness threshold. Start also reclaims stale sessions
// lazily; the sweeper catches sessions whose owner never comes back, so
// GET of the active session stops reporting them.
type Sweeper struct {
	sessions   repository.SessionRepository
	clock      clock.Clock
	staleAfter time.Duration
	interval   time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
	log    *logger.Logger
}

func NewSweeper(sessions repository.SessionRepository, clk clock.Clock, staleAfter, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	log := logger.Default().WithPrefix("sweeper")
	log.Debug("creating session sweeper: stale_after=%s, interval=%s", staleAfter, interval)
	return &Sweeper{
		sessions:   sessions,
		clock:      clk,
		staleAfter: staleAfter,
		interval:   interval,
		log:        log,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.log.Info("starting session sweeper")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Debug("sweeper shutting down (context cancelled)")
				return
			case <-ticker.C:
				s.Sweep(logger.NewContext(ctx, s.log))
			}
		}
	}()
}

// Sweep runs one pass. Exported so a pass can be forced in tests and at
// startup.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := s.clock.Now().Add(-s.staleAfter)
	n, err := s.sessions.InterruptStale(ctx, cutoff)
	if err != nil {
		s.log.Error("sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Info("interrupted %d stale sessions", n)
	}
}

func (s *Sweeper) Stop() {
	s.log.Info("stopping session sweeper")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("session sweeper stopped")
}
