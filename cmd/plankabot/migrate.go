package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout)
			if err != nil {
				return err
			}
			database.CloseDB(db)

			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.Database.Path)
			return nil
		},
	}
}
