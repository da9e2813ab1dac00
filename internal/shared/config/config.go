package config

import (
	"TurnstileCore/internal/core/domain"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	LogLevel      string
	EncryptionKey string
	Widget        domain.WidgetOptions
	Postgres      PostgresConfig
	Telegram      TelegramConfig
}

// PostgresConfig enables the verification recorder when URL is set.
type PostgresConfig struct {
	URL string
}

// TelegramConfig enables failure alerts when BotToken is set.
type TelegramConfig struct {
	BotToken    string
	AlertChatID int64
}

// envBindings maps viper keys to the environment variables that feed them.
var envBindings = map[string]string{
	"app.env":                "APP_ENV",
	"log.level":              "LOG_LEVEL",
	"encryption.key":         "ENCRYPTION_KEY",
	"turnstile.site_key":     "TURNSTILE_SITE_KEY",
	"turnstile.theme":        "TURNSTILE_THEME",
	"turnstile.size":         "TURNSTILE_SIZE",
	"turnstile.appearance":   "TURNSTILE_APPEARANCE",
	"turnstile.position":     "TURNSTILE_POSITION",
	"postgres.url":           "DATABASE_URL",
	"telegram.bot_token":     "TELEGRAM_BOT_TOKEN",
	"telegram.alert_chat_id": "TELEGRAM_ALERT_CHAT_ID",
}

// Load loads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	// A missing .env is fine; we fall back to the process environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")

	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		LogLevel:      v.GetString("log.level"),
		EncryptionKey: v.GetString("encryption.key"),
		Widget: domain.WidgetOptions{
			SiteKey:    v.GetString("turnstile.site_key"),
			Theme:      domain.Theme(v.GetString("turnstile.theme")),
			Size:       domain.Size(v.GetString("turnstile.size")),
			Appearance: domain.Appearance(v.GetString("turnstile.appearance")),
			Position:   domain.Position(v.GetString("turnstile.position")),
		}.WithDefaults(),
		Postgres: PostgresConfig{
			URL: v.GetString("postgres.url"),
		},
		Telegram: TelegramConfig{
			BotToken:    v.GetString("telegram.bot_token"),
			AlertChatID: v.GetInt64("telegram.alert_chat_id"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := c.Widget.Validate(); err != nil {
		return fmt.Errorf("turnstile config: %w", err)
	}

	if c.Postgres.URL != "" {
		if c.EncryptionKey == "" {
			return errors.New("ENCRYPTION_KEY is required when DATABASE_URL is set")
		}
		if len(c.EncryptionKey) != 64 {
			return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
		}
	}

	if c.Telegram.BotToken != "" && c.Telegram.AlertChatID == 0 {
		return errors.New("TELEGRAM_ALERT_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}
