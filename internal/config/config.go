package config

import "slices"

// DefaultPath is the config file used when no -c flag is given.
const DefaultPath = "config.yml"

const (
	// DefaultWorkers is the number of (region, check) units run in parallel
	// for one profile when the config does not say otherwise.
	DefaultWorkers = 4

	// DefaultMaxRetries is the number of throttling retries per unit.
	DefaultMaxRetries = 3
)

// Config is the declarative sweep configuration. It is loaded once per run
// and must be treated as immutable afterwards.
//
// Every key is optional; a missing section means "no exclusions" or
// "no explicit profiles".
type Config struct {
	// RegionsToExclude lists region identifiers that are never scanned.
	RegionsToExclude []string `yaml:"regions_to_exclude" json:"regions_to_exclude"`

	// ChecksToExclude lists check names that are never run.
	ChecksToExclude []string `yaml:"checks_to_exclude" json:"checks_to_exclude"`

	// Profiles is the ordered list of credential profiles to sweep. The -p
	// flag overrides it.
	Profiles []string `yaml:"profiles" json:"profiles"`

	// Workers caps concurrent (region, check) units per profile.
	// Zero means DefaultWorkers.
	Workers int `yaml:"workers" json:"workers"`

	// MaxRetries is the number of retries for a throttled unit.
	// Nil means DefaultMaxRetries; an explicit 0 disables retries.
	MaxRetries *int `yaml:"max_retries" json:"max_retries"`
}

// ExcludesRegion reports whether region is listed in RegionsToExclude.
func (c *Config) ExcludesRegion(region string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.RegionsToExclude, region)
}

// ExcludesCheck reports whether check is listed in ChecksToExclude.
func (c *Config) ExcludesCheck(check string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.ChecksToExclude, check)
}

// EffectiveWorkers returns Workers, or DefaultWorkers when unset.
func (c *Config) EffectiveWorkers() int {
	if c == nil || c.Workers <= 0 {
		return DefaultWorkers
	}
	return c.Workers
}

// EffectiveMaxRetries returns MaxRetries, or DefaultMaxRetries when unset.
func (c *Config) EffectiveMaxRetries() int {
	if c == nil || c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}
