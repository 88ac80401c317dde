package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/config"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// MarkdownExporter renders a session through a mustache template.
// Template overrides come from the config dir; an empty Template uses
// the built-in default.
type MarkdownExporter struct {
	Template string
}

func (e *MarkdownExporter) Export(session *models.Session, messages []models.Message, w io.Writer) error {
	template := e.Template
	if template == "" {
		template = config.DefaultExportTemplate
	}

	msgs := make([]map[string]interface{}, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, map[string]interface{}{
			"role":      string(m.Role),
			"content":   m.Content,
			"timestamp": formatInstant(m.Timestamp),
			"error":     m.Error,
		})
	}

	data := map[string]interface{}{
		"title":         session.Title,
		"session_id":    session.ID,
		"user_id":       session.UserID,
		"created_at":    formatInstant(session.CreatedAt),
		"updated_at":    formatInstant(session.UpdatedAt),
		"message_count": session.MessageCount,
		"last_message":  session.LastMessage,
		"messages":      msgs,
	}

	rendered, err := mustache.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	if _, err := io.WriteString(w, rendered); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
