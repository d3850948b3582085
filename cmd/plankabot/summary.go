package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edgard/plankabot/internal/bot/handlers"
	"github.com/edgard/plankabot/internal/clock"
	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
	"github.com/edgard/plankabot/internal/logger"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print today's plank summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
			slog.SetDefault(log)

			db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			clk := clock.New(cfg.Day.Timezone, log)
			store := database.NewStore(db, clk, log, database.WithInactiveAfter(cfg.Summary.InactiveAfter))

			summary, err := store.DailySummary(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), handlers.FormatSummary(cfg.Messages, summary))
			return err
		},
	}
}
