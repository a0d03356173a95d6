package common

import (
	"errors"
	"strings"
)

// EnvironmentSourceName is the display name of the ambient environment
// credential source.
const EnvironmentSourceName = "environment"

// ErrCredentialsMissing is returned when no profile was requested and the
// environment holds no AWS credentials.
var ErrCredentialsMissing = errors.New("no AWS credentials: pass -p, set profiles in the config, or export AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")

// CredentialSource is one set of credentials to sweep with: either a named
// profile or the credentials already present in the environment.
type CredentialSource struct {
	Profile     string
	Environment bool
}

// Name returns the profile name, or EnvironmentSourceName.
func (s CredentialSource) Name() string {
	if s.Environment {
		return EnvironmentSourceName
	}
	if s.Profile == "" {
		return "default"
	}
	return s.Profile
}

// ResolveSources decides which credential sources a run uses.
//
// Precedence:
//  1. cliProfiles, a comma-separated list from -p
//  2. cfgProfiles from the config file
//  3. AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY read through env
//
// Order is preserved and repeated names collapse to their first occurrence.
func ResolveSources(cliProfiles string, cfgProfiles []string, env func(string) string) ([]CredentialSource, error) {
	if names := dedupe(strings.Split(cliProfiles, ",")); len(names) > 0 {
		return profileSources(names), nil
	}
	if names := dedupe(cfgProfiles); len(names) > 0 {
		return profileSources(names), nil
	}
	if env != nil && env("AWS_ACCESS_KEY_ID") != "" && env("AWS_SECRET_ACCESS_KEY") != "" {
		return []CredentialSource{{Environment: true}}, nil
	}
	return nil, ErrCredentialsMissing
}

func profileSources(names []string) []CredentialSource {
	out := make([]CredentialSource, len(names))
	for i, n := range names {
		out[i] = CredentialSource{Profile: n}
	}
	return out
}

// dedupe trims each name, drops empty ones and keeps the first occurrence of
// every repeated name.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
