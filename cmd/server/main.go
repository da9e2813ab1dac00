package main

import (
	"TurnstileCore/internal/adapters/eventbus"
	"TurnstileCore/internal/adapters/postgres"
	"TurnstileCore/internal/adapters/security"
	"TurnstileCore/internal/adapters/telegram"
	"TurnstileCore/internal/shared/config"
	"TurnstileCore/internal/shared/logger"
	"TurnstileCore/internal/widget"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("log_level", baseLogger.GetLevel().String()).
		Msg("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. One emitter for the whole process, passed to every collaborator
	emitter := eventbus.NewInMemoryEmitter(eventbus.NewLogHook(&baseLogger))

	// 4. Recorder (optional, needs Postgres)
	if cfg.Postgres.URL != "" {
		keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to decode ENCRYPTION_KEY. It must be hex-encoded.")
		}

		sealer, err := security.NewAESSealer(keyBytes, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize token sealer")
		}

		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to prepare database schema")
		}

		repo := postgres.NewVerificationRepository(db, &baseLogger)
		recorder := widget.NewRecorder(emitter, repo, sealer, &baseLogger)
		defer recorder.Close()
	} else {
		baseLogger.Warn().Msg("DATABASE_URL not set, widget events will not be recorded")
	}

	// 5. Alerts (optional, needs a Telegram bot)
	if cfg.Telegram.BotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to create Telegram bot API")
		}
		baseLogger.Info().Str("bot_username", api.Self.UserName).Msg("Telegram bot authorized")

		notifier := telegram.NewAlertNotifier(api, cfg.Telegram.AlertChatID, emitter, &baseLogger)
		defer notifier.Close()
	}

	// 6. The widget session publishes lifecycle signals into the same emitter
	session, err := widget.NewSession(cfg.Widget, emitter, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to create widget session")
	}
	defer session.Close()

	baseLogger.Info().
		Str("widget_id", session.ID().String()).
		Interface("styles", session.Styles()).
		Msg("Widget event core ready")

	<-ctx.Done()
	baseLogger.Info().Msg("Shutting down")
}
