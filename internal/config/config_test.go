package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearAmbientEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("MODEL", "")
	t.Setenv("PORT", "")
}

func TestLoadDefaults(t *testing.T) {
	clearAmbientEnv(t)

	// We pass nil for cmd to skip flags
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Expected default port %d, got %d", DefaultServerPort, cfg.Server.Port)
	}
	if cfg.Server.LogLevel != DefaultServerLogLevel {
		t.Errorf("Expected default log level %s, got %s", DefaultServerLogLevel, cfg.Server.LogLevel)
	}
	if cfg.OpenRouter.Model != DefaultOpenRouterModel {
		t.Errorf("Expected default model %s, got %s", DefaultOpenRouterModel, cfg.OpenRouter.Model)
	}
	if cfg.OpenRouter.BaseURL != DefaultOpenRouterBaseURL {
		t.Errorf("Expected default base url %s, got %s", DefaultOpenRouterBaseURL, cfg.OpenRouter.BaseURL)
	}
	if cfg.OpenRouter.RequestTimeout != DefaultOpenRouterTimeout {
		t.Errorf("Expected default request timeout %s, got %s", DefaultOpenRouterTimeout, cfg.OpenRouter.RequestTimeout)
	}
	if cfg.Telegram.BotToken != "" {
		t.Errorf("Expected empty bot token by default, got %q", cfg.Telegram.BotToken)
	}
}

func TestLoadPrefixedEnvOverrides(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("DOCSMITH_SERVER_PORT", "9191")
	t.Setenv("DOCSMITH_OPENROUTER_MODEL", "openai/gpt-4o-mini")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Expected port 9191 from env, got %d", cfg.Server.Port)
	}
	if cfg.OpenRouter.Model != "openai/gpt-4o-mini" {
		t.Errorf("Expected model from env, got %s", cfg.OpenRouter.Model)
	}
}

func TestLoadPrefixedEnvMultiWordKeys(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("DOCSMITH_TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DOCSMITH_TELEGRAM_WEBHOOK_URL", "https://env.example.com")
	t.Setenv("DOCSMITH_OPENROUTER_API_KEY", "sk-or-env")
	t.Setenv("DOCSMITH_OPENROUTER_BASE_URL", "https://proxy.example.com/v1")
	t.Setenv("DOCSMITH_OPENROUTER_REQUEST_TIMEOUT", "30s")
	t.Setenv("DOCSMITH_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Only the first underscore is a section separator; the rest belong to
	// the key itself.
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("Expected bot token from DOCSMITH_TELEGRAM_BOT_TOKEN, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.WebhookURL != "https://env.example.com" {
		t.Errorf("Expected webhook url from env, got %q", cfg.Telegram.WebhookURL)
	}
	if cfg.OpenRouter.APIKey != "sk-or-env" {
		t.Errorf("Expected api key from DOCSMITH_OPENROUTER_API_KEY, got %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.BaseURL != "https://proxy.example.com/v1" {
		t.Errorf("Expected base url from env, got %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.OpenRouter.RequestTimeout != "30s" {
		t.Errorf("Expected request timeout from env, got %q", cfg.OpenRouter.RequestTimeout)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("Expected log level from env, got %q", cfg.Server.LogLevel)
	}
}

func TestLoadStandardEnvFallbacks(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("MODEL", "mistralai/mistral-small")
	t.Setenv("PORT", "3000")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("Expected bot token from TELEGRAM_BOT_TOKEN, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.WebhookURL != "https://bot.example.com" {
		t.Errorf("Expected webhook url from WEBHOOK_URL, got %q", cfg.Telegram.WebhookURL)
	}
	if cfg.OpenRouter.APIKey != "sk-or-test" {
		t.Errorf("Expected api key from OPENROUTER_API_KEY, got %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.Model != "mistralai/mistral-small" {
		t.Errorf("Expected model from MODEL, got %q", cfg.OpenRouter.Model)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected port from PORT, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearAmbientEnv(t)

	home := os.Getenv("HOME")
	configDir := filepath.Join(home, ".docsmith")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	content := "telegram:\n  bot_token: file-token\n  webhook_url: https://file.example.com\nopenrouter:\n  model: file/model\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "file-token" {
		t.Errorf("Expected bot token from file, got %q", cfg.Telegram.BotToken)
	}
	if cfg.OpenRouter.Model != "file/model" {
		t.Errorf("Expected model from file, got %q", cfg.OpenRouter.Model)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("File without server section should keep default port, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty config")
	}

	cfg.Telegram.BotToken = "123:abc"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error without webhook url")
	}

	cfg.Telegram.WebhookURL = "https://bot.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidateDoesNotRequireRelaySettings(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "123:abc", WebhookURL: "https://bot.example.com"},
	}
	// A missing relay key is a per-invocation error, not a startup-fatal one.
	if err := cfg.Validate(); err != nil {
		t.Errorf("Missing relay key should not fail startup validation: %v", err)
	}
}

func TestDurationOrDefault(t *testing.T) {
	d, err := DurationOrDefault("", "60s")
	if err != nil {
		t.Fatalf("DurationOrDefault failed: %v", err)
	}
	if d != 60*time.Second {
		t.Errorf("Expected 60s, got %v", d)
	}

	d, err = DurationOrDefault("250ms", "60s")
	if err != nil {
		t.Fatalf("DurationOrDefault failed: %v", err)
	}
	if d != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", d)
	}

	if _, err := DurationOrDefault("nonsense", "60s"); err == nil {
		t.Error("Expected error for invalid duration")
	}
	if _, err := DurationOrDefault("", ""); err == nil {
		t.Error("Expected error for empty duration and default")
	}
}
