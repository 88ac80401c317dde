package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// sessionDocument is the shape shared by the JSON and YAML exporters.
type sessionDocument struct {
	Session  *models.Session  `json:"session" yaml:"session"`
	Messages []models.Message `json:"messages" yaml:"messages"`
}

// JSONExporter exports a session in pretty-printed JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(session *models.Session, messages []models.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(sessionDocument{Session: session, Messages: messages})
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// JSONLExporter exports one message per line.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(session *models.Session, messages []models.Message, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i := range messages {
		if err := enc.Encode(&messages[i]); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
