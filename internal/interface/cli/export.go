package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/export"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/store"
)

var (
	exportOutput  string
	exportFormat  string
	exportSession string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to a file",
	Long: `Export conversation data.

Without --session, writes a full backup of the user's sessions and
messages as pretty-printed JSON (clear-ai-conversations-<date>.json).
With --session, exports a single session in the chosen format.

Examples:
  clearai export
  clearai export -o backup.json
  clearai export --session session_1756_ab12cd34 --format md -o chat.md`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Format for --session exports (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Export a single session instead of a full backup")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if exportSession != "" {
		return exportSingleSession(s, cfg.ExportTemplate)
	}

	snapshot, err := s.Export(cfg.UserID)
	if err != nil {
		return err
	}
	data, err := store.ExportBytes(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize export: %w", err)
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = store.ExportFileName(time.Now())
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Exported %d sessions and %d messages to %s\n",
		len(snapshot.Sessions), len(snapshot.Messages), outputPath)
	return nil
}

func exportSingleSession(s *store.SQLiteStore, template string) error {
	session, err := s.GetSession(exportSession)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", exportSession)
	}

	messages, err := s.GetMessagesForSession(exportSession)
	if err != nil {
		return err
	}

	exporter, err := export.New(exportFormat)
	if err != nil {
		return err
	}
	if md, ok := exporter.(*export.MarkdownExporter); ok {
		md.Template = template
	}

	outputPath := exportOutput
	if outputPath == "" {
		shortID := exportSession
		if len(shortID) > 16 {
			shortID = shortID[:16]
		}
		outputPath = fmt.Sprintf("session-%s.%s", shortID, exporter.Extension())
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := exporter.Export(session, messages, f); err != nil {
		return err
	}

	fmt.Printf("Exported session to %s\n", filepath.Clean(outputPath))
	return nil
}
