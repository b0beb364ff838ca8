package usecase

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// ReplayWorker periodically drains the pending-change ledgers. While records
// keep failing to replay the interval grows exponentially; a clean pass resets
// it to the base interval.
type ReplayWorker struct {
	replayers []Replayer
	interval  time.Duration
	maxWait   time.Duration
	logger    zerolog.Logger
}

// NewReplayWorker creates a worker over the given replayers.
func NewReplayWorker(replayers []Replayer, interval, maxWait time.Duration, logger zerolog.Logger) *ReplayWorker {
	return &ReplayWorker{
		replayers: replayers,
		interval:  interval,
		maxWait:   maxWait,
		logger:    logger.With().Str("component", "replay_worker").Logger(),
	}
}

// Run blocks until ctx is cancelled, replaying on a backoff schedule.
func (w *ReplayWorker) Run(ctx context.Context) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.interval
	policy.MaxInterval = w.maxWait
	policy.MaxElapsedTime = 0
	policy.Reset()

	wait := w.interval
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("replay worker stopped")
			return
		case <-time.After(wait):
		}

		if w.pass(ctx) {
			policy.Reset()
			wait = w.interval
		} else {
			wait = policy.NextBackOff()
		}
	}
}

// pass runs one replay round and reports whether everything drained.
func (w *ReplayWorker) pass(ctx context.Context) bool {
	clean := true
	for _, r := range w.replayers {
		remaining, err := r.ReplayPending(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Msg("replay pass failed")
			clean = false
			continue
		}
		if remaining > 0 {
			w.logger.Debug().Int("remaining", remaining).Msg("records still pending")
			clean = false
		}
	}
	return clean
}
