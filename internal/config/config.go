package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Agent   AgentConfig
	History HistoryConfig
}

// AgentConfig describes how to launch the external shopping agent.
type AgentConfig struct {
	Command   []string
	WorkDir   string
	OutputDir string
	LogDir    string
}

// HistoryConfig holds run-history storage settings.
type HistoryConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix
// SHOPCTL_, e.g. SHOPCTL_AGENT_OUTPUT_DIR.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("agent.command", []string{"python3", "-m", "agent"})
	v.SetDefault("agent.work_dir", ".")
	v.SetDefault("agent.output_dir", "output")
	v.SetDefault("agent.log_dir", filepath.Join("output", "logs"))
	v.SetDefault("history.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "shopctl", "history.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SHOPCTL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "shopctl"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHOPCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Agent.Command) == 0 {
		return Config{}, fmt.Errorf("agent.command must not be empty")
	}
	return c, nil
}
