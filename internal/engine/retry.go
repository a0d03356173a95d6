package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/sweeper/internal/checks"
	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// maxBackoff caps a single wait between retries.
const maxBackoff = 30 * time.Second

// errThrottled wraps the last throttling error once retries are exhausted.
// attempts counts every call made, the first one included.
type errThrottled struct {
	attempts int
	err      error
}

func (e *errThrottled) Error() string {
	return fmt.Sprintf("throttled after %d attempts: %s", e.attempts, checks.SkipReason(e.err))
}

func (e *errThrottled) Unwrap() error { return e.err }

// runWithRetry calls run until it succeeds, fails with a non-throttling
// error, or has been retried maxRetries times. Waits double from base and
// are abandoned as soon as ctx is done. This is the only layer that retries
// throttling; the SDK retryer from common.NewRetryer returns those at once.
func runWithRetry(
	ctx context.Context,
	maxRetries int,
	base time.Duration,
	run func(context.Context) ([]models.Finding, error),
) ([]models.Finding, error) {
	wait := base
	for attempt := 0; ; attempt++ {
		findings, err := run(ctx)
		if err == nil {
			return findings, nil
		}
		if !checks.IsThrottle(err) {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, &errThrottled{attempts: attempt + 1, err: err}
		}

		zerolog.Ctx(ctx).Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("throttled, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
}
