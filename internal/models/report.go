package models

import "time"

// CheckResult is the outcome of running one check in one region.
// A skipped result carries no findings and a human-readable reason.
type CheckResult struct {
	Check       string    `json:"check"`
	Description string    `json:"description"`
	Findings    []Finding `json:"findings"`
	Skipped     bool      `json:"skipped"`
	SkipReason  string    `json:"skip_reason,omitempty"`
}

// RegionReport groups the check results of a single region.
type RegionReport struct {
	Region string        `json:"region"`
	Checks []CheckResult `json:"checks"`
}

// ProfileReport groups the region reports of a single credential source.
// When the profile could not be loaded, Skipped is set and Regions is empty.
type ProfileReport struct {
	Profile    string         `json:"profile"`
	AccountID  string         `json:"account_id,omitempty"`
	Regions    []RegionReport `json:"regions"`
	Skipped    bool           `json:"skipped"`
	SkipReason string         `json:"skip_reason,omitempty"`
}

// ReportSummary aggregates counts across the whole report.
type ReportSummary struct {
	Profiles        int `json:"profiles"`
	ProfilesSkipped int `json:"profiles_skipped"`
	Regions         int `json:"regions"`
	ChecksRun       int `json:"checks_run"`
	ChecksSkipped   int `json:"checks_skipped"`
	Findings        int `json:"findings"`
}

// Report is the complete result of one sweep. It exists only for the
// duration of a run and is never persisted.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Profiles    []ProfileReport `json:"profiles"`
	Summary     ReportSummary   `json:"summary"`
}

// Findings returns every finding in report order.
func (r *Report) Findings() []Finding {
	var out []Finding
	for _, p := range r.Profiles {
		for _, reg := range p.Regions {
			for _, c := range reg.Checks {
				out = append(out, c.Findings...)
			}
		}
	}
	return out
}

// ComputeSummary returns the counts for r. It does not modify r.
func ComputeSummary(r *Report) ReportSummary {
	var s ReportSummary
	regions := make(map[string]struct{})
	for _, p := range r.Profiles {
		s.Profiles++
		if p.Skipped {
			s.ProfilesSkipped++
		}
		for _, reg := range p.Regions {
			regions[reg.Region] = struct{}{}
			for _, c := range reg.Checks {
				if c.Skipped {
					s.ChecksSkipped++
					continue
				}
				s.ChecksRun++
				s.Findings += len(c.Findings)
			}
		}
	}
	s.Regions = len(regions)
	return s
}
