package retry

import (
	"context"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
)

// Do calls op until it succeeds, the policy is exhausted or ctx is done. The
// last error from op is returned. Classified errors that do not allow retries
// are returned immediately.
func Do(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}

		delay := p.Delay(attempt + 1)
		slog.Warn("Retrying after failure",
			slog.String("operation", name),
			slog.Int("retry", attempt+1),
			slog.Duration("delay", delay),
			logfields.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	if classified, ok := ferrors.AsClassified(err); ok {
		return classified.CanRetry()
	}
	return true
}
