package handlers

import (
	"context"
)

// helpHandler sends the command guide.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, msg InboundMessage) {
	log := h.deps.Logger.With("handler", "help")
	log.InfoContext(ctx, "Handling help command", "chat_id", msg.ChatID, "user_id", msg.UserID)
	h.deps.reply(ctx, log, msg.ChatID, h.deps.Config.Messages.Help)
}
