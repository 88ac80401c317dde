package cli

import (
	"github.com/spf13/cobra"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/agent"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/manager"
	"github.com/wsyeabsera/clear-ai-sub002/internal/interface/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat client",
	Long: `Open the interactive chat client.

Assistant replies come from the agent command configured in
~/.config/clearai/config.toml (agent_command). The query is piped to
the command's stdin and its stdout becomes the reply.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	mgr := manager.New(s, cfg.UserID)
	responder := agent.NewCommandResponder(cfg.AgentCommand)
	opts := agent.Options{
		UserID:          cfg.UserID,
		EnableMemory:    cfg.EnableMemory,
		EnableReasoning: cfg.EnableReasoning,
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
	}

	return tui.Run(mgr, responder, opts)
}
