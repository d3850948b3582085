// Package bot implements the bot lifecycle: update delivery by long polling
// or webhook, and the task scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
	"github.com/edgard/plankabot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// TelegramClient is the part of *tgbot.Bot the orchestrator drives.
type TelegramClient interface {
	Start(ctx context.Context)
	StartWebhook(ctx context.Context)
	WebhookHandler() http.HandlerFunc
	SetWebhook(ctx context.Context, params *tgbot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *tgbot.DeleteWebhookParams) (bool, error)
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	store     database.Store
	tgBot     TelegramClient
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	store database.Store,
	tgBot TelegramClient,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		store:     store,
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run starts update delivery and the scheduler, and blocks until ctx is
// cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	if b.cfg.Telegram.Webhook.Enabled {
		if err := b.startWebhook(gCtx, g); err != nil {
			return err
		}
	} else {
		b.startPolling(gCtx, g)
	}

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

func (b *Bot) startPolling(ctx context.Context, g *errgroup.Group) {
	// getUpdates is refused while a webhook is registered.
	if _, err := b.tgBot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		b.logger.Warn("Failed to delete webhook before polling", "error", err)
	}

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener (long polling)...")
		b.tgBot.Start(ctx)
		b.logger.Info("Telegram bot listener stopped.")

		if ctx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})
}

func (b *Bot) startWebhook(ctx context.Context, g *errgroup.Group) error {
	wh := b.cfg.Telegram.Webhook

	if _, err := b.tgBot.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         wh.URL,
		SecretToken: wh.SecretToken,
	}); err != nil {
		return fmt.Errorf("failed to set telegram webhook: %w", err)
	}
	b.logger.Info("Telegram webhook registered", "url", wh.URL)

	srv := &http.Server{
		Addr:              wh.Listen,
		Handler:           telegram.NewWebhookRouter(wh.Path, b.tgBot.WebhookHandler(), b.store, b.logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g.Go(func() error {
		b.logger.Info("Starting Telegram webhook worker...")
		b.tgBot.StartWebhook(ctx)
		b.logger.Info("Telegram webhook worker stopped.")
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Webhook server listening", "addr", srv.Addr, "path", wh.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			b.logger.Error("Webhook server forced to shutdown", "error", err)
		}
		return nil
	})

	return nil
}
