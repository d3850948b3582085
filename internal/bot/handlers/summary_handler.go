package handlers

import (
	"context"
)

type summaryHandler struct {
	deps HandlerDeps
}

func (h summaryHandler) Handle(ctx context.Context, msg InboundMessage) {
	log := h.deps.Logger.With("handler", "summary")

	summary, err := h.deps.Store.DailySummary(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load daily summary", "chat_id", msg.ChatID, "error", err)
		h.deps.reply(ctx, log, msg.ChatID, h.deps.Config.Messages.SummaryFailed)
		return
	}

	log.InfoContext(ctx, "Handled summary command", "chat_id", msg.ChatID, "done", len(summary.Done), "not_done", len(summary.NotDone))
	h.deps.reply(ctx, log, msg.ChatID, FormatSummary(h.deps.Config.Messages, summary))
}
