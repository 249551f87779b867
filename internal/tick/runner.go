// Package tick runs the background evaluator that advances the session
// state machine against wall-clock time.
package tick

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// DefaultInterval is the evaluation period.
const DefaultInterval = 250 * time.Millisecond

// Evaluator is the slice of the session controller the runner drives.
type Evaluator interface {
	Tick(ctx context.Context) *domain.Session
}

// Option configures the runner.
type Option func(*Runner)

// WithInterval sets the evaluation period.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// Runner polls the evaluator on a fixed period. The evaluator's own
// legality table makes repeated ticks idempotent, so the runner stays
// dumb: no scheduling, no per-event timers, just a ticker.
type Runner struct {
	eval     Evaluator
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a runner with the given evaluator and options.
func New(eval Evaluator, log *logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		eval:     eval,
		log:      log,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the background tick loop. Non-blocking; starting a
// running runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("tick runner already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	go r.loop(childCtx)

	r.log.Info("tick runner started (interval=%s)", r.interval)
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.running = false
	r.log.Info("tick runner stopped")
}

// loop is the main ticker loop.
func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.eval.Tick(ctx)
		}
	}
}
