package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// ExportFileName returns the default name for a snapshot written at t,
// e.g. clear-ai-conversations-2026-08-28.json.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("clear-ai-conversations-%s.json", t.Format("2006-01-02"))
}

func marshalSnapshot(snapshot *models.Snapshot) ([]byte, error) {
	// Normalize nil slices so the file always carries both arrays.
	s := models.Snapshot{
		Sessions: snapshot.Sessions,
		Messages: snapshot.Messages,
	}
	if s.Sessions == nil {
		s.Sessions = []models.Session{}
	}
	if s.Messages == nil {
		s.Messages = []models.Message{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// validateSnapshot rejects malformed import data before anything is
// written. The whole import fails on the first bad row.
func validateSnapshot(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}
	for i := range snapshot.Sessions {
		if err := snapshot.Sessions[i].Validate(); err != nil {
			return fmt.Errorf("invalid session at index %d: %w", i, err)
		}
	}
	for i := range snapshot.Messages {
		if err := snapshot.Messages[i].Validate(); err != nil {
			return fmt.Errorf("invalid message at index %d: %w", i, err)
		}
	}
	return nil
}
