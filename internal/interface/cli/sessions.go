package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNew,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and all of its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	mgr := manager.New(s, cfg.UserID)
	session, err := mgr.CreateSession(title)
	if err != nil {
		return err
	}

	fmt.Printf("Created session %s (%s)\n", session.ID, session.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	if err := s.DeleteSession(sessionID); err != nil {
		return err
	}

	fmt.Printf("Deleted session %s and %d messages\n", sessionID, session.MessageCount)
	return nil
}
