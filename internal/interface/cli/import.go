package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a conversation backup",
	Long: `Import a backup previously written by "clearai export".

The user's existing data is replaced by the backup in one transaction:
a failed import leaves the current data untouched. Ownership of every
imported session and message is rewritten to the current user.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Import(&snapshot, cfg.UserID); err != nil {
		return err
	}

	fmt.Printf("Imported %d sessions and %d messages for user %s\n",
		len(snapshot.Sessions), len(snapshot.Messages), cfg.UserID)
	return nil
}
