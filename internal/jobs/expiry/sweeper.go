// Package expiry reconciles stored active flags for actions whose expiry
// timestamp has passed. Reads already treat lapsed actions as inactive, so
// the sweep only keeps persisted state aligned for direct DB consumers.
package expiry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const sweepActorID = "system"

type actionExpirer interface {
	ExpireActions(ctx context.Context, actorID string) (int, error)
}

type Sweeper struct {
	expirer  actionExpirer
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(expirer actionExpirer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the periodic sweep loop. It returns immediately; Stop
// terminates the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RunOnce performs a single sweep pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	expired, err := s.expirer.ExpireActions(ctx, sweepActorID)
	if err != nil {
		s.logger.Warn("action expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("action expiry sweep completed", zap.Int("expired", expired))
	}
}
