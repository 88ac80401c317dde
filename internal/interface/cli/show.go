package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	messages, err := s.GetMessagesForSession(sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", session.Title)
	fmt.Printf("%s | %d messages\n\n", session.ID, session.MessageCount)

	for _, msg := range messages {
		fmt.Printf("[%s] %s\n", strings.ToUpper(string(msg.Role)), msg.Timestamp.Format("Jan 2, 2006 3:04 PM"))
		if msg.Error != "" {
			fmt.Printf("  (error: %s)\n", msg.Error)
		}
		fmt.Println(msg.Content)
		fmt.Println()
	}
	return nil
}
