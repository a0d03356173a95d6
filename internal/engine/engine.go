package engine

import (
	"context"
	"time"

	"github.com/pankaj-dahiya-devops/sweeper/internal/config"
	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
	"github.com/pankaj-dahiya-devops/sweeper/internal/providers/aws/common"
)

// DefaultBackoffBase is the first wait before retrying a throttled unit.
// Each further retry doubles it.
const DefaultBackoffBase = 500 * time.Millisecond

// Progress receives unit counts while a sweep runs. Totals grow as each
// profile's plan becomes known.
type Progress interface {
	// Expand adds n units to the expected total.
	Expand(n int)

	// Increment marks one unit as finished, whatever its outcome.
	Increment()
}

// Options configures a single sweep. It is the sole input to Engine.RunSweep.
type Options struct {
	// Sources are the credential sources to sweep, in report order.
	Sources []common.CredentialSource

	// Config supplies region and check exclusions. May be nil.
	Config *config.Config

	// Workers caps concurrent units per profile. Zero means
	// config.DefaultWorkers.
	Workers int

	// MaxRetries is the number of retries for a throttled unit.
	MaxRetries int

	// BackoffBase overrides DefaultBackoffBase when positive.
	BackoffBase time.Duration

	// Clock stamps Report.GeneratedAt. Nil means time.Now.
	Clock func() time.Time

	// Progress is notified as units finish. May be nil.
	Progress Progress
}

// Engine drives a sweep: profiles, then regions, then checks.
//
// Per-check and per-profile failures are absorbed into the report as
// skipped entries. RunSweep returns an error only when the context is
// cancelled.
type Engine interface {
	RunSweep(ctx context.Context, opts Options) (*models.Report, error)
}
