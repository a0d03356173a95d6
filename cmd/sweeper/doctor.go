package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/sweeper/internal/checks"
	"github.com/pankaj-dahiya-devops/sweeper/internal/config"
	"github.com/pankaj-dahiya-devops/sweeper/internal/output"
	"github.com/pankaj-dahiya-devops/sweeper/internal/providers/aws/common"
)

// errUnhealthy is returned by sweeper doctor after it has printed a failing
// diagnosis. main exits non-zero without printing it again.
var errUnhealthy = errors.New("environment is not ready to sweep")

// DoctorResult is the structured output of sweeper doctor. It can be
// serialised to JSON via --format=json or rendered as text (default).
type DoctorResult struct {
	Config struct {
		Path     string   `json:"path"`
		Present  bool     `json:"present"`
		Valid    bool     `json:"valid"`
		Errors   []string `json:"errors,omitempty"`
		Warnings []string `json:"warnings,omitempty"`
	} `json:"config"`

	// SourcesError is set when no credential source could be resolved.
	SourcesError string `json:"sources_error,omitempty"`

	Profiles []ProfileDiagnosis `json:"profiles"`

	OverallHealthy bool `json:"overall_healthy"`
}

// ProfileDiagnosis records whether one credential source can be swept.
type ProfileDiagnosis struct {
	Profile     string `json:"profile"`
	Credentials bool   `json:"credentials_ok"`
	AccountID   string `json:"account_id,omitempty"`
	RegionsOK   bool   `json:"regions_ok"`
	Regions     int    `json:"regions,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newDoctorCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the config, credentials and region discovery for every profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, _ := cmd.Flags().GetString("format")
			format, err := output.ParseFormat(flag)
			if err != nil {
				return err
			}

			ctx, v, err := setup(cmd)
			if err != nil {
				return err
			}

			result := DoctorResult{Profiles: []ProfileDiagnosis{}}
			cfg := diagnoseConfig(ctx, &result, v.GetString("config"), d.registry())

			sources, err := resolveSources(ctx, v, cfg, d.getenv)
			if err != nil {
				result.SourcesError = err.Error()
			}

			diagnoseProfiles(ctx, &result, d.provider(cfg.EffectiveMaxRetries()), sources)

			if err := renderDoctor(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if !result.OverallHealthy {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().String("format", "text", `Output format: "text" or "json"`)
	return cmd
}

// diagnoseConfig loads and validates the config at path, recording the
// outcome in result. It always returns a usable Config.
func diagnoseConfig(ctx context.Context, result *DoctorResult, path string, reg *checks.Registry) *config.Config {
	cfg, loaded, err := config.LoadOrDefault(ctx, path)
	result.Config.Path = loaded
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		result.Config.Errors = []string{err.Error()}
		return &config.Config{}
	case err != nil:
		result.Config.Present = true
		result.Config.Errors = []string{err.Error()}
		return &config.Config{}
	}

	result.Config.Present = true
	result.Config.Valid = true
	for _, verr := range config.Validate(cfg, reg.Names()) {
		result.Config.Warnings = append(result.Config.Warnings, verr.Error())
	}
	return cfg
}

// diagnoseProfiles runs STS and region discovery for each source and sets
// result.OverallHealthy.
func diagnoseProfiles(ctx context.Context, result *DoctorResult, provider common.AWSClientProvider, sources []common.CredentialSource) {
	healthy := result.Config.Valid && result.SourcesError == "" && len(sources) > 0

	for _, src := range sources {
		diag := ProfileDiagnosis{Profile: src.Name()}

		profileCfg, err := provider.LoadProfile(ctx, src)
		if err != nil {
			diag.Error = checks.SkipReason(err)
		} else {
			diag.Credentials = true
			diag.AccountID = profileCfg.AccountID
			regions, err := provider.GetActiveRegions(ctx, profileCfg)
			if err != nil {
				diag.Error = checks.SkipReason(err)
			} else {
				diag.RegionsOK = true
				diag.Regions = len(regions)
			}
		}

		healthy = healthy && diag.Credentials && diag.RegionsOK
		result.Profiles = append(result.Profiles, diag)
	}

	result.OverallHealthy = healthy
}

func renderDoctor(w io.Writer, result DoctorResult, format output.Format) error {
	if format == output.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode doctor result: %w", err)
		}
		return nil
	}
	renderDoctorText(w, result)
	return nil
}

// renderDoctorText writes the human-readable diagnostic output from result to w.
func renderDoctorText(w io.Writer, result DoctorResult) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintf(w, "\nConfig (%s):\n", result.Config.Path)
	switch {
	case !result.Config.Present:
		doctorPrint(w, "Present", "FAIL", firstOr(result.Config.Errors, ""))
	case !result.Config.Valid:
		doctorPrint(w, "Present", "OK", "")
		doctorPrint(w, "Parsed", "FAIL", firstOr(result.Config.Errors, ""))
	default:
		doctorPrint(w, "Present", "OK", "")
		doctorPrint(w, "Parsed", "OK", "")
		for _, warn := range result.Config.Warnings {
			doctorPrint(w, "Warning", "WARN", warn)
		}
	}

	if result.SourcesError != "" {
		fmt.Fprintln(w, "\nAWS:")
		doctorPrint(w, "Credentials", "FAIL", result.SourcesError)
		return
	}

	for _, p := range result.Profiles {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", p.Profile)
		if !p.Credentials {
			doctorPrint(w, "Credentials", "FAIL", p.Error)
			doctorPrint(w, "STS Identity", "FAIL", "skipped")
			doctorPrint(w, "Regions API", "FAIL", "skipped")
			continue
		}
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+p.AccountID)
		if p.RegionsOK {
			doctorPrint(w, "Regions API", "OK", fmt.Sprintf("%d regions", p.Regions))
		} else {
			doctorPrint(w, "Regions API", "FAIL", p.Error)
		}
	}
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
