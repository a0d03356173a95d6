package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

const (
	reportTitle = "Sweeper report"
	timeLayout  = "2006-01-02 15:04:05 MST"

	// wMessage caps the MESSAGE column. Resource IDs are never truncated.
	wMessage = 55

	nothingFound = "nothing found"
	nothingSwept = "nothing to sweep: every region or check is excluded"
)

var (
	heavyRule = strings.Repeat("=", 64)
	lightRule = strings.Repeat("-", 64)
)

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// formatDetails renders details as "key=value" pairs in their stored order.
func formatDetails(details []models.Detail) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, d.Key+"="+d.Value)
	}
	return strings.Join(parts, ", ")
}

// RenderText writes report to w as sectioned plain text: one block per
// profile, one per region and one findings table per check. Checks with no
// findings print an explicit "nothing found" line so an empty result is never
// confused with a check that did not run.
func RenderText(w io.Writer, report *models.Report) error {
	tw := &textWriter{w: w}

	tw.line(reportTitle)
	tw.line("Generated: " + report.GeneratedAt.Format(timeLayout))

	for _, p := range report.Profiles {
		renderProfile(tw, p)
	}

	tw.line("")
	tw.line(heavyRule)
	tw.line(summaryLine(report.Summary))
	return tw.err
}

func renderProfile(tw *textWriter, p models.ProfileReport) {
	tw.line("")
	tw.line(heavyRule)
	if p.AccountID != "" {
		tw.linef("Profile %s (account %s)", p.Profile, p.AccountID)
	} else {
		tw.linef("Profile %s", p.Profile)
	}
	tw.line(heavyRule)

	if p.Skipped {
		tw.line("  skipped: " + p.SkipReason)
		return
	}
	if len(p.Regions) == 0 {
		tw.line("  " + nothingSwept)
		return
	}

	for _, reg := range p.Regions {
		tw.line("")
		tw.line("Region " + reg.Region)
		tw.line(lightRule)
		for _, c := range reg.Checks {
			renderCheck(tw, c)
		}
	}
}

// renderCheck writes the header line of c followed by its findings table.
//
// Table layout:
//
//	RESOURCE ID  TYPE  MESSAGE  [DETAILS]
func renderCheck(tw *textWriter, c models.CheckResult) {
	tw.linef("[%s] %s", c.Check, c.Description)

	switch {
	case c.Skipped:
		tw.line("  skipped: " + c.SkipReason)
		return
	case len(c.Findings) == 0:
		tw.line("  " + nothingFound)
		return
	}

	wResource := len("RESOURCE ID")
	wType := len("TYPE")
	showDetails := false
	for _, f := range c.Findings {
		wResource = max(wResource, len(f.ResourceID))
		wType = max(wType, len(f.ResourceType))
		if len(f.Details) > 0 {
			showDetails = true
		}
	}

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("  %-*s", wResource, "RESOURCE ID"))
	hb.WriteString(fmt.Sprintf("  %-*s", wType, "TYPE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wMessage, "MESSAGE"))
	if showDetails {
		hb.WriteString("  DETAILS")
	}
	tw.line(strings.TrimRight(hb.String(), " "))

	for _, f := range c.Findings {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("  %-*s", wResource, f.ResourceID))
		rb.WriteString(fmt.Sprintf("  %-*s", wType, f.ResourceType))
		rb.WriteString(fmt.Sprintf("  %-*s", wMessage, ShortenMessage(f.Message, wMessage)))
		if showDetails {
			rb.WriteString("  " + formatDetails(f.Details))
		}
		tw.line(strings.TrimRight(rb.String(), " "))
	}
	tw.linef("  %d found", len(c.Findings))
}

func summaryLine(s models.ReportSummary) string {
	profiles := fmt.Sprintf("%d profiles", s.Profiles)
	if s.ProfilesSkipped > 0 {
		profiles += fmt.Sprintf(" (%d skipped)", s.ProfilesSkipped)
	}
	return fmt.Sprintf("Summary: %s, %d regions, %d checks run, %d checks skipped, %d findings",
		profiles, s.Regions, s.ChecksRun, s.ChecksSkipped, s.Findings)
}

// textWriter remembers the first write error so rendering code can stay
// linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s+"\n")
}

func (t *textWriter) linef(format string, args ...any) {
	t.line(fmt.Sprintf(format, args...))
}
