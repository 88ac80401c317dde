package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across the user's messages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	results, err := s.SearchMessages(cfg.UserID, query, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, r := range results {
		title := r.SessionTitle
		if title == "" {
			title = r.Message.SessionID
		}
		fmt.Printf("%s | %s | %s\n", title, r.Message.Role, humanize.Time(r.Message.Timestamp))
		fmt.Printf("    %s\n", models.Truncate(strings.ReplaceAll(r.Message.Content, "\n", " "), 120))
		fmt.Printf("    session: %s\n", r.Message.SessionID)
	}
	return nil
}
