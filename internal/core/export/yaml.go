package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// YAMLExporter exports a session in YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(session *models.Session, messages []models.Message, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(sessionDocument{Session: session, Messages: messages})
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
