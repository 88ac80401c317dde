// Package export renders a single session and its messages to a file
// format. Whole-account backup uses the JSON snapshot in the store
// package; these exporters cover the human-readable per-session
// formats.
package export

import (
	"fmt"
	"io"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *models.Session, messages []models.Message, w io.Writer) error
	Extension() string
}

// New creates an exporter for the given format.
func New(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md, yaml)", format)
	}
}
