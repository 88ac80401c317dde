package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"
)

var listSince string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long: `List the user's sessions, most recent activity first.

The --since filter accepts natural language dates:
  clearai list --since yesterday
  clearai list --since "last week"
  clearai list --since 2026-08-01`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSince, "since", "", "Only sessions active since this date")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	sessions, err := s.GetAllSessions(cfg.UserID)
	if err != nil {
		return err
	}

	var since time.Time
	if listSince != "" {
		since, err = parseSince(listSince, time.Now())
		if err != nil {
			return err
		}
	}

	shown := 0
	for _, session := range sessions {
		if !since.IsZero() && session.Timestamp.Before(since) {
			continue
		}
		shown++
		preview := session.LastMessage
		if preview == "" {
			preview = "(no messages)"
		}
		fmt.Printf("%s  %s\n", session.ID, session.Title)
		fmt.Printf("    %d messages | %s | %s\n", session.MessageCount, humanize.Time(session.Timestamp), preview)
	}

	if shown == 0 {
		fmt.Println("No sessions found.")
	}
	return nil
}

// parseSince resolves a natural-language or ISO date expression.
func parseSince(expr string, now time.Time) (time.Time, error) {
	// Plain dates first
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, expr); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", expr, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("could not understand date %q", strings.TrimSpace(expr))
	}
	return result.Time, nil
}
