// Package scheduler drives the daily maintenance pass: the population-wide
// notification sweep, notification aging, and the employment status sweep.
// One tick replaces the cron entries of earlier deployments.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"kadry/internal/notify"
	"kadry/internal/status"
	"kadry/pkg/requestcontext"
)

// Worker fires once per day at the configured hour. All three jobs in a tick
// share one pinned clock so every row sees the same "today".
type Worker struct {
	reconciler   *notify.Reconciler
	transitioner *status.Transitioner
	hour         int
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithClock overrides the scheduling clock.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func New(reconciler *notify.Reconciler, transitioner *status.Transitioner, hour int, opts ...Option) *Worker {
	w := &Worker{
		reconciler:   reconciler,
		transitioner: transitioner,
		hour:         hour,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run blocks until ctx is cancelled, executing one maintenance pass per day.
func (w *Worker) Run(ctx context.Context) error {
	for {
		next := w.nextTick()
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		w.RunOnce(ctx, next)
	}
}

// RunOnce executes one maintenance pass with the clock pinned to tick. Errors
// are logged, not returned: a failed pass must not stop the next day's run,
// and every job is idempotent on retry.
func (w *Worker) RunOnce(ctx context.Context, tick time.Time) {
	ctx = requestcontext.WithTime(ctx, tick)
	started := w.now()

	if w.transitioner != nil {
		terminated, err := w.transitioner.Run(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "status sweep failed", slog.Any("error", err))
		} else if terminated > 0 {
			w.logger.InfoContext(ctx, "status sweep done", slog.Int("terminated", terminated))
		}
	}

	if w.reconciler != nil {
		if err := w.reconciler.ReconcilePopulation(ctx); err != nil {
			w.logger.ErrorContext(ctx, "population sweep failed", slog.Any("error", err))
		}
		if err := w.reconciler.AgeAll(ctx); err != nil {
			w.logger.ErrorContext(ctx, "notification aging failed", slog.Any("error", err))
		}
	}

	w.logger.InfoContext(ctx, "maintenance pass done",
		slog.Duration("duration", w.now().Sub(started)),
	)
}

// nextTick returns the next occurrence of the configured hour.
func (w *Worker) nextTick() time.Time {
	now := w.now()
	tick := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, now.Location())
	if !tick.After(now) {
		tick = tick.AddDate(0, 0, 1)
	}
	return tick
}
