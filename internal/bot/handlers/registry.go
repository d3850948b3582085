package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a Telegram handler registration.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the Telegram registrations of the dispatcher.
// Commands are plain words rather than slash commands, so every text message
// goes through a single catch-all handler and is classified by the dispatcher.
func RegisterAllCommands(d *Dispatcher) map[string]RegisteredHandler {
	return map[string]RegisteredHandler{
		"message": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "",
			Handler:     d.HandleUpdate,
			MatchType:   tgbot.MatchTypePrefix,
		},
	}
}

// HandleUpdate adapts Handle to the Telegram handler signature.
func (d *Dispatcher) HandleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg, ok := FromUpdate(update)
	if !ok {
		d.log.DebugContext(ctx, "Ignoring update without message or sender")
		return
	}
	d.Handle(ctx, msg)
}
