package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	stats, err := s.Stats(cfg.UserID)
	if err != nil {
		return err
	}

	fmt.Printf("User:     %s\n", cfg.UserID)
	fmt.Printf("Sessions: %d\n", stats.SessionCount)
	fmt.Printf("Messages: %d\n", stats.MessageCount)
	fmt.Printf("Storage:  %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	return nil
}
