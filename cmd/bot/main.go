package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/finance-bot/backend/internal/chat"
	"example.com/finance-bot/backend/internal/config"
	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/notify"
	"example.com/finance-bot/backend/internal/recurring"
	"example.com/finance-bot/backend/internal/telegram"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if !cfg.Telegram.Enabled() {
		logger.Warn("telegram chat is disabled: set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID to enable it")
		return
	}

	store, err := ledger.NewStore(cfg.Data.Dir)
	if err != nil {
		logger.Error("failed to open ledger store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions, err := ledger.NewSessionStore(cfg.Data.Dir)
	if err != nil {
		logger.Error("failed to open session store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	added, err := recurring.NewProcessor(store).Run(time.Now())
	if err != nil {
		logger.Error("failed to process recurring expenses", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if added > 0 {
		logger.Info("recurring expenses materialized", slog.Int("added", added))
	}

	// HTTP таймаут должен переживать long poll, иначе каждый пустой
	// опрос завершается ошибкой.
	client := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.BaseURL, cfg.Telegram.PollTimeout+10*time.Second)
	engine := chat.NewEngine(store, sessions, logger)
	poller := telegram.NewPoller(client, engine, cfg.Telegram.ChatID, cfg.Telegram.PollTimeout, cfg.Telegram.PollInterval, cfg.Telegram.RetryDelay, logger)

	scheduler, err := notify.NewScheduler(store, client, cfg.Telegram.ChatID, cfg.Notify.DailySummaryAt, logger)
	if err != nil {
		logger.Error("failed to build summary scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- poller.Run(ctx) }()
	go func() { errCh <- scheduler.Run(ctx) }()

	logger.Info("bot started", slog.Int64("chat_id", cfg.Telegram.ChatID))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("bot stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
