package engine

import (
	"iter"
	"slices"
	"strings"

	"github.com/pankaj-dahiya-devops/sweeper/internal/checks"
	"github.com/pankaj-dahiya-devops/sweeper/internal/config"
)

// Unit is one (region, check) pair of a profile's plan.
type Unit struct {
	Region string
	Check  checks.Check
}

// Plan is the effective set of regions and checks for one profile after
// exclusions. It is immutable once built.
type Plan struct {
	regions []string
	checks  []checks.Check
}

// BuildPlan subtracts cfg's exclusions from regions and all. Regions are
// deduplicated and sorted; checks are deduplicated by name and sorted by
// name. A nil cfg excludes nothing. When no check survives, the plan has no
// regions either.
func BuildPlan(regions []string, all []checks.Check, cfg *config.Config) Plan {
	var p Plan

	for _, r := range regions {
		if r == "" || cfg.ExcludesRegion(r) || slices.Contains(p.regions, r) {
			continue
		}
		p.regions = append(p.regions, r)
	}
	slices.Sort(p.regions)

	seen := make(map[string]bool, len(all))
	for _, c := range all {
		if cfg.ExcludesCheck(c.Name()) || seen[c.Name()] {
			continue
		}
		seen[c.Name()] = true
		p.checks = append(p.checks, c)
	}
	slices.SortFunc(p.checks, func(a, b checks.Check) int {
		return strings.Compare(a.Name(), b.Name())
	})

	if len(p.checks) == 0 {
		p.regions = nil
	}
	return p
}

// Regions returns the planned regions in order.
func (p Plan) Regions() []string { return slices.Clone(p.regions) }

// Checks returns the planned checks in order.
func (p Plan) Checks() []checks.Check { return slices.Clone(p.checks) }

// Len returns the number of units the plan yields.
func (p Plan) Len() int { return len(p.regions) * len(p.checks) }

// Units yields every (region, check) pair, region-major. Each call starts
// a fresh iteration.
func (p Plan) Units() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for _, r := range p.regions {
			for _, c := range p.checks {
				if !yield(Unit{Region: r, Check: c}) {
					return
				}
			}
		}
	}
}
