package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/cmd/clearai/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server over the conversation store",
	Long: `Start an MCP (Model Context Protocol) server that lets an AI agent
list, read, and search your Clear AI conversations.

Configure in your agent's MCP config:
  {
    "mcpServers": {
      "clearai": {
        "command": "clearai",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := mcp.StartServer(dbPath, cfg.UserID); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
