package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/config"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/store"
)

var (
	dbPath      string
	userFlag    string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clearai",
	Short: "Clear AI conversation manager",
	Long: `clearai - a local-first manager for Clear AI chat conversations

Stores sessions and messages per user in an embedded SQLite database,
with an interactive chat client, full-text search, import/export, and
an MCP server over the conversation store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the chat client if no subcommand specified
		return chatCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "Database path")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id (default: from config, then \"local\")")
}

// loadConfig resolves config with the --user flag taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}
	return cfg, nil
}

// openStore opens the SQLite store at the configured path.
func openStore() (*store.SQLiteStore, error) {
	s, err := store.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return s, nil
}
