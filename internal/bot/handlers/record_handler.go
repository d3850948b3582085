package handlers

import (
	"context"
)

type recordHandler struct {
	deps HandlerDeps
}

func (h recordHandler) Handle(ctx context.Context, msg InboundMessage, name string, cmd Command) {
	log := h.deps.Logger.With("handler", "record")
	messages := h.deps.Config.Messages

	if name == "" {
		log.WarnContext(ctx, "Cannot record plank without sender name", "chat_id", msg.ChatID, "user_id", msg.UserID)
		h.deps.reply(ctx, log, msg.ChatID, messages.RecordFailed)
		return
	}

	res, err := h.deps.Store.RecordDaily(ctx, msg.UserID, name, cmd.Value, cmd.Increment)
	if err != nil {
		log.ErrorContext(ctx, "Failed to record plank", "chat_id", msg.ChatID, "user_id", msg.UserID, "error", err)
		h.deps.reply(ctx, log, msg.ChatID, messages.RecordFailed)
		return
	}

	var delta int64
	if cmd.Value != nil {
		delta = *cmd.Value
	}
	log.InfoContext(ctx, "Handled record command", "chat_id", msg.ChatID, "user_id", msg.UserID, "outcome", res.Outcome.String())
	h.deps.reply(ctx, log, msg.ChatID, FormatRecordReply(messages, res, delta))
}
