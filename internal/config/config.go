package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Telegram   TelegramConfig   `koanf:"telegram"`
	OpenRouter OpenRouterConfig `koanf:"openrouter"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type TelegramConfig struct {
	BotToken   string `koanf:"bot_token"`
	WebhookURL string `koanf:"webhook_url"`
}

type OpenRouterConfig struct {
	APIKey         string `koanf:"api_key"`
	Model          string `koanf:"model"`
	BaseURL        string `koanf:"base_url"`
	RequestTimeout string `koanf:"request_timeout"`
	Referer        string `koanf:"referer"`
	Title          string `koanf:"title"`
}

const (
	DefaultServerPort            = 8080
	DefaultServerLogLevel        = "info"
	DefaultServerReadTimeout     = "10s"
	DefaultServerWriteTimeout    = "10s"
	DefaultServerIdleTimeout     = "60s"
	DefaultServerShutdownTimeout = "5s"
	DefaultOpenRouterBaseURL     = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel       = "mistralai/mistral-7b-instruct:free"
	DefaultOpenRouterTimeout     = "60s"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.port":                DefaultServerPort,
		"server.log_level":           DefaultServerLogLevel,
		"server.read_timeout":        DefaultServerReadTimeout,
		"server.write_timeout":       DefaultServerWriteTimeout,
		"server.idle_timeout":        DefaultServerIdleTimeout,
		"server.shutdown_timeout":    DefaultServerShutdownTimeout,
		"openrouter.base_url":        DefaultOpenRouterBaseURL,
		"openrouter.model":           DefaultOpenRouterModel,
		"openrouter.request_timeout": DefaultOpenRouterTimeout,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".docsmith", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables. Only the first underscore separates the section
	// from the key, so DOCSMITH_TELEGRAM_BOT_TOKEN maps to telegram.bot_token.
	k.Load(env.Provider("DOCSMITH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "DOCSMITH_")), "_", ".", 1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Post-Process: Inject standard Env Vars if missing
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" && cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = token
	}
	if url := os.Getenv("WEBHOOK_URL"); url != "" && cfg.Telegram.WebhookURL == "" {
		cfg.Telegram.WebhookURL = url
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" && cfg.OpenRouter.APIKey == "" {
		cfg.OpenRouter.APIKey = key
	}
	if model := os.Getenv("MODEL"); model != "" {
		cfg.OpenRouter.Model = model
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return &cfg, nil
}

// Validate reports the first missing startup-fatal setting. The process must
// not serve without a bot token and a reachable webhook URL. A missing relay
// key or model is not fatal here; it surfaces per invocation instead.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("telegram.bot_token is required (set TELEGRAM_BOT_TOKEN)")
	}
	if strings.TrimSpace(c.Telegram.WebhookURL) == "" {
		return fmt.Errorf("telegram.webhook_url is required (set WEBHOOK_URL)")
	}
	return nil
}
