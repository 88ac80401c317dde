package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

type sessionListItem struct {
	session models.Session
	active  bool
}

func (i sessionListItem) FilterValue() string {
	return i.session.Title + " " + i.session.LastMessage
}

func (i sessionListItem) Title() string {
	if i.active {
		return "* " + i.session.Title
	}
	return i.session.Title
}

func (i sessionListItem) Description() string {
	return fmt.Sprintf("%d messages | %s", i.session.MessageCount, formatTime(i.session.Timestamp))
}

func createSessionList(sessions []models.Session, activeID string, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s, active: s.ID == activeID}
	}

	delegate := list.NewDefaultDelegate()

	l := list.New(items, delegate, width, height)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)

	return l
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}
