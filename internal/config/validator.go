package config

import (
	"fmt"
	"regexp"
	"strings"
)

// regionPattern matches the shape of AWS region identifiers such as
// us-east-1, ap-southeast-2 or us-gov-west-1.
var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

// Validate checks cfg for entries that look like mistakes and returns all of
// them. None of these stop a sweep; callers report them as warnings.
//
// Checks performed:
//   - checks_to_exclude names must appear in knownChecks
//   - regions_to_exclude entries must look like region identifiers
//   - profiles must not be empty or repeated
func Validate(cfg *Config, knownChecks []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("config is nil")}
	}

	known := make(map[string]struct{}, len(knownChecks))
	for _, name := range knownChecks {
		known[name] = struct{}{}
	}

	var errs []error

	for _, name := range cfg.ChecksToExclude {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Errorf("checks_to_exclude: unknown check %q; valid values: %s",
				name, strings.Join(knownChecks, ", ")))
		}
	}

	for _, region := range cfg.RegionsToExclude {
		if !regionPattern.MatchString(region) {
			errs = append(errs, fmt.Errorf("regions_to_exclude: %q does not look like an AWS region", region))
		}
	}

	seen := make(map[string]struct{}, len(cfg.Profiles))
	for i, p := range cfg.Profiles {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("profiles[%d]: empty profile name", i))
			continue
		}
		if _, dup := seen[p]; dup {
			errs = append(errs, fmt.Errorf("profiles[%d]: duplicate profile %q", i, p))
		}
		seen[p] = struct{}{}
	}

	return errs
}
