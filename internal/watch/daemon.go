package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/tinypub/internal/logfields"
)

// BuildFunc runs one rebuild.
type BuildFunc func(ctx context.Context) error

// Daemon serializes rebuilds. Triggers arriving while a rebuild runs collapse
// into a single follow-up rebuild.
type Daemon struct {
	build   BuildFunc
	pending chan string

	mu       sync.Mutex
	builds   int
	lastErr  error
	lastDone time.Time
}

// NewDaemon creates a Daemon around build.
func NewDaemon(build BuildFunc) *Daemon {
	return &Daemon{build: build, pending: make(chan string, 1)}
}

// Trigger requests a rebuild. It never blocks.
func (d *Daemon) Trigger(reason string) {
	select {
	case d.pending <- reason:
		slog.Debug("Rebuild requested", logfields.Reason(reason))
	default:
		// Rebuild already pending
	}
}

// Run performs an initial build and then rebuilds on every trigger until ctx
// is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.runOnce(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			return nil
		case reason := <-d.pending:
			d.runOnce(ctx, reason)
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context, reason string) {
	start := time.Now()
	slog.Info("Rebuilding", logfields.Reason(reason))
	err := d.build(ctx)

	d.mu.Lock()
	d.builds++
	d.lastErr = err
	d.lastDone = time.Now()
	d.mu.Unlock()

	if err != nil {
		slog.Error("Rebuild failed", logfields.Reason(reason), logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Stats reports the number of completed rebuilds and the last error.
func (d *Daemon) Stats() (builds int, lastErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.builds, d.lastErr
}
