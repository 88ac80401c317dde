package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
)

// renderTranscript renders the active session's messages for the chat
// viewport.
func renderTranscript(state manager.State, width int) string {
	if state.CurrentSession == nil {
		return loadingStyle.Render("No session selected. Press ctrl+n to start a new chat.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(state.CurrentSession.Title))
	b.WriteString("\n\n")

	if len(state.Messages) == 0 {
		b.WriteString(loadingStyle.Render("No messages yet. Say something."))
		return b.String()
	}

	wrap := lipgloss.NewStyle().Width(width)

	for _, msg := range state.Messages {
		label := roleStyle(string(msg.Role)).Render(strings.ToUpper(string(msg.Role)))
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(msg.Timestamp.Format("15:04:05")))
		b.WriteString("\n")

		switch {
		case msg.IsLoading:
			b.WriteString(loadingStyle.Render("thinking..."))
		case msg.Error != "":
			b.WriteString(errorStyle.Render(msg.Error))
		default:
			b.WriteString(wrap.Render(msg.Content))
		}
		b.WriteString("\n\n")
	}

	return b.String()
}
