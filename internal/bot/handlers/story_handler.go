package handlers

import (
	"context"
)

type storyHandler struct {
	deps HandlerDeps
}

func (h storyHandler) Handle(ctx context.Context, msg InboundMessage, cmd Command) {
	log := h.deps.Logger.With("handler", "story")
	messages := h.deps.Config.Messages

	h.deps.reply(ctx, log, msg.ChatID, h.deps.pick(messages.StoryPlaceholders))

	log.InfoContext(ctx, "Generating story", "chat_id", msg.ChatID, "extra_context", cmd.Arg)
	story, err := h.deps.Gateway.Story(ctx, cmd.Arg)
	if err != nil {
		log.ErrorContext(ctx, "Story generation failed", "chat_id", msg.ChatID, "error", err)
		h.deps.reply(ctx, log, msg.ChatID, messages.StoryFailed)
		return
	}

	h.deps.reply(ctx, log, msg.ChatID, story+messages.StorySuffix)
}
