package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// ErrOutputWrite is returned when the rendered report cannot be written to
// its destination.
var ErrOutputWrite = errors.New("cannot write report")

// Format selects the report renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text or json)", s)
	}
}

// Render writes report to w in the given format.
func Render(w io.Writer, report *models.Report, format Format) error {
	if format == FormatJSON {
		return RenderJSON(w, report)
	}
	return RenderText(w, report)
}

// WriteReport renders report in full before writing it, so a partially
// written file never results from a rendering problem. When path is empty
// the report goes to stdout; otherwise the file at path is created or
// truncated.
func WriteReport(report *models.Report, format Format, path string, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := Render(&buf, report, format); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if path == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("%w to stdout: %w", ErrOutputWrite, err)
		}
		return nil
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}
