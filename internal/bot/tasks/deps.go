// Package tasks implements the bot's scheduled tasks.
package tasks

import (
	"log/slog"

	"github.com/edgard/plankabot/internal/bot/handlers"
	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Sender handlers.Sender
	Config *config.Config
}
