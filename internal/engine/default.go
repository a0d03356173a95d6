package engine

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/sweeper/internal/checks"
	"github.com/pankaj-dahiya-devops/sweeper/internal/config"
	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
	"github.com/pankaj-dahiya-devops/sweeper/internal/providers/aws/common"
)

// DefaultEngine is the production implementation of Engine.
// It never calls the AWS SDK directly; profiles come from the provider and
// resource listing is delegated to checks.
type DefaultEngine struct {
	provider common.AWSClientProvider
	registry *checks.Registry
	clients  checks.ClientFactory
}

// NewDefaultEngine constructs a DefaultEngine backed by real SDK clients.
func NewDefaultEngine(provider common.AWSClientProvider, registry *checks.Registry) *DefaultEngine {
	return NewDefaultEngineWithFactory(provider, registry, checks.NewClients)
}

// NewDefaultEngineWithFactory returns an engine that builds per-region
// clients with f. Pass a stub factory in tests.
func NewDefaultEngineWithFactory(
	provider common.AWSClientProvider,
	registry *checks.Registry,
	f checks.ClientFactory,
) *DefaultEngine {
	return &DefaultEngine{provider: provider, registry: registry, clients: f}
}

// RunSweep implements Engine. Profiles are swept one after another in
// opts.Sources order; the units of one profile run in parallel.
func (e *DefaultEngine) RunSweep(ctx context.Context, opts Options) (*models.Report, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	report := &models.Report{
		GeneratedAt: clock().UTC(),
		Profiles:    make([]models.ProfileReport, 0, len(opts.Sources)),
	}

	for _, src := range opts.Sources {
		pr, err := e.sweepProfile(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		report.Profiles = append(report.Profiles, pr)
	}

	report.Summary = models.ComputeSummary(report)
	return report, nil
}

// sweepProfile loads src, plans its units and runs them. A profile that
// cannot be loaded is returned as a skipped ProfileReport; only context
// cancellation is returned as an error.
func (e *DefaultEngine) sweepProfile(ctx context.Context, src common.CredentialSource, opts Options) (models.ProfileReport, error) {
	log := zerolog.Ctx(ctx).With().Str("profile", src.Name()).Logger()
	ctx = log.WithContext(ctx)

	pr := models.ProfileReport{Profile: src.Name(), Regions: []models.RegionReport{}}

	profile, err := e.provider.LoadProfile(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return pr, ctx.Err()
		}
		log.Warn().Err(err).Msg("skipping profile")
		pr.Skipped = true
		pr.SkipReason = checks.SkipReason(err)
		return pr, nil
	}
	pr.AccountID = profile.AccountID

	regions, err := e.provider.GetActiveRegions(ctx, profile)
	if err != nil {
		if ctx.Err() != nil {
			return pr, ctx.Err()
		}
		log.Warn().Err(err).Msg("region discovery failed, using the default region list")
		regions = common.FallbackRegions
	}

	plan := BuildPlan(regions, e.registry.All(), opts.Config)
	log.Info().
		Str("account_id", profile.AccountID).
		Int("regions", len(plan.Regions())).
		Int("checks", len(plan.Checks())).
		Msg("sweeping profile")

	results, err := e.runPlan(ctx, profile, plan, opts)
	if err != nil {
		return pr, err
	}

	pr.Regions = groupByRegion(plan, results)
	return pr, nil
}

// runPlan executes every unit of plan on a bounded errgroup. Results are
// stored by unit index so their order never depends on completion order.
func (e *DefaultEngine) runPlan(ctx context.Context, profile *common.ProfileConfig, plan Plan, opts Options) ([]models.CheckResult, error) {
	units := slices.Collect(plan.Units())
	results := make([]models.CheckResult, len(units))

	clientsByRegion := make(map[string]*checks.Clients, len(plan.Regions()))
	for _, region := range plan.Regions() {
		clientsByRegion[region] = e.clients(e.provider.ConfigForRegion(profile, region))
	}

	if opts.Progress != nil {
		opts.Progress.Expand(len(units))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	backoff := opts.BackoffBase
	if backoff <= 0 {
		backoff = DefaultBackoffBase
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, u := range units {
		scope := checks.Scope{Profile: profile.ProfileName, AccountID: profile.AccountID, Region: u.Region}
		clients := clientsByRegion[u.Region]

		g.Go(func() error {
			res, err := runUnit(gctx, u.Check, clients, scope, opts.MaxRetries, backoff)
			if err != nil {
				return err
			}
			results[i] = res
			if opts.Progress != nil {
				opts.Progress.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runUnit runs one check in one region and classifies its outcome.
// Throttling is retried and any other failure becomes a skipped result.
// Only a done context is returned as an error.
func runUnit(
	ctx context.Context,
	check checks.Check,
	clients *checks.Clients,
	scope checks.Scope,
	maxRetries int,
	backoff time.Duration,
) (models.CheckResult, error) {
	log := zerolog.Ctx(ctx).With().Str("region", scope.Region).Str("check", check.Name()).Logger()

	res := models.CheckResult{
		Check:       check.Name(),
		Description: check.Description(),
		Findings:    []models.Finding{},
	}

	findings, err := runWithRetry(ctx, maxRetries, backoff, func(ctx context.Context) ([]models.Finding, error) {
		return check.Run(ctx, clients, scope)
	})
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Skipped = true
		res.SkipReason = skipReason(err)
		log.Warn().Err(err).Msg("check skipped")
		return res, nil
	}

	if findings != nil {
		res.Findings = findings
	}
	log.Debug().Int("findings", len(res.Findings)).Msg("check complete")
	return res, nil
}

// groupByRegion folds plan-ordered results into one RegionReport per region.
func groupByRegion(plan Plan, results []models.CheckResult) []models.RegionReport {
	regions := plan.Regions()
	perRegion := len(plan.Checks())

	out := make([]models.RegionReport, 0, len(regions))
	for i, r := range regions {
		out = append(out, models.RegionReport{
			Region: r,
			Checks: results[i*perRegion : (i+1)*perRegion],
		})
	}
	return out
}

func skipReason(err error) string {
	var throttled *errThrottled
	if errors.As(err, &throttled) {
		return throttled.Error()
	}
	return checks.SkipReason(err)
}
