package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/plankabot/internal/bot"
	"github.com/edgard/plankabot/internal/bot/handlers"
	"github.com/edgard/plankabot/internal/bot/tasks"
	"github.com/edgard/plankabot/internal/clock"
	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
	"github.com/edgard/plankabot/internal/llm"
	"github.com/edgard/plankabot/internal/logger"
	"github.com/edgard/plankabot/internal/telegram"
	"github.com/edgard/plankabot/internal/transcript"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			if err := cfg.ValidateSecrets(); err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}
}

// serve wires every component and blocks until the command context is cancelled.
func serve(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	clk := clock.New(cfg.Day.Timezone, log)

	db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, clk, log, database.WithInactiveAfter(cfg.Summary.InactiveAfter))

	prompts, err := config.LoadPrompts(cfg.LLM.Prompts)
	if err != nil {
		return err
	}
	gen, err := llm.NewGenerator(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}
	gateway := llm.NewGateway(gen, cfg.LLM, prompts, llm.WithLogger(log))

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, telegram.BotOptions(cfg.Telegram, log)...)
	if err != nil {
		return err
	}
	sender := telegram.NewSender(tg, cfg.Telegram.SendTimeout, log)

	dispatcher := handlers.NewDispatcher(handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Transcript: transcript.NewAggregator(store, clk, log),
		Gateway:    gateway,
		Sender:     sender,
		Names:      handlers.SenderNameResolver{},
	})
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(dispatcher)); err != nil {
		return err
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Sender: sender,
		Config: cfg,
	})
	scheduler, err := bot.NewScheduler(log, &cfg.Scheduler, clk.Location(), taskMap)
	if err != nil {
		return err
	}

	app := bot.NewBot(log, cfg, store, tg, scheduler)
	log.Info("Starting bot", "webhook", cfg.Telegram.Webhook.Enabled, "timezone", cfg.Day.Timezone)
	if err := app.Run(ctx); err != nil {
		log.Error("Bot stopped with error", "error", err)
		return err
	}

	log.Info("Bot stopped")
	// Give in-flight handlers a moment to finish their replies.
	time.Sleep(1 * time.Second)
	return nil
}
