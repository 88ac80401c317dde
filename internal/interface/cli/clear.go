package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clearAll   bool
	clearForce bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored conversations",
	Long: `Delete all sessions and messages for the current user.

With --all, every user's data is removed. Both forms prompt for
confirmation unless --force is given.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "delete data for every user, not just the current one")
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scope := fmt.Sprintf("all conversations for user %s", cfg.UserID)
	if clearAll {
		scope = "ALL conversations for EVERY user"
	}

	if !clearForce {
		fmt.Printf("This will permanently delete %s. Continue? [y/N] ", scope)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if clearAll {
		if err := s.ClearAllData(); err != nil {
			return err
		}
	} else {
		if err := s.ClearUserData(cfg.UserID); err != nil {
			return err
		}
	}

	fmt.Println("Cleared")
	return nil
}
