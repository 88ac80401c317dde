package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultExportTemplate renders a session to markdown. Users can
// override it by dropping export_template.md into the config dir.
const DefaultExportTemplate = `# {{title}}

**Session ID:** ` + "`{{session_id}}`" + `
**User:** ` + "`{{user_id}}`" + `
**Created:** {{created_at}}
**Updated:** {{updated_at}}
**Messages:** {{message_count}}

---

{{#messages}}
**{{role}}** ({{timestamp}})

{{content}}

---

{{/messages}}
`

type Config struct {
	UserID          string
	AgentCommand    []string
	Model           string
	Temperature     float64
	EnableMemory    bool
	EnableReasoning bool
	ExportTemplate  string
}

type tomlConfig struct {
	UserID          string   `toml:"user_id"`
	AgentCommand    []string `toml:"agent_command"`
	Model           string   `toml:"model"`
	Temperature     float64  `toml:"temperature"`
	EnableMemory    bool     `toml:"enable_memory"`
	EnableReasoning bool     `toml:"enable_reasoning"`
}

// Dir returns the config directory, ~/.config/clearai.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "clearai")
}

// DefaultDBPath returns the default database location inside the
// config directory.
func DefaultDBPath() string {
	return filepath.Join(Dir(), "conversations.db")
}

// Load reads config from ~/.config/clearai/. A missing config file is
// not an error; defaults apply.
func Load() (*Config, error) {
	cfg := &Config{
		UserID:         "local",
		Temperature:    0.7,
		EnableMemory:   true,
		ExportTemplate: DefaultExportTemplate,
	}

	dir := Dir()
	if dir == "" {
		return cfg, nil // Use defaults
	}

	tomlPath := filepath.Join(dir, "config.toml")
	templatePath := filepath.Join(dir, "export_template.md")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.UserID != "" {
				cfg.UserID = tc.UserID
			}
			if len(tc.AgentCommand) > 0 {
				cfg.AgentCommand = tc.AgentCommand
			}
			if tc.Model != "" {
				cfg.Model = tc.Model
			}
			if tc.Temperature > 0 {
				cfg.Temperature = tc.Temperature
			}
			cfg.EnableMemory = tc.EnableMemory
			cfg.EnableReasoning = tc.EnableReasoning
		}
	}

	// If custom export template exists, use it
	if data, err := os.ReadFile(templatePath); err == nil {
		cfg.ExportTemplate = string(data)
	}

	return cfg, nil
}
