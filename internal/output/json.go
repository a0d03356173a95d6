package output

import (
	"encoding/json"
	"io"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// RenderJSON writes report to w as indented JSON followed by a newline.
func RenderJSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
