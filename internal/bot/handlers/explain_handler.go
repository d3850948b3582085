package handlers

import (
	"context"
	"strings"
)

type explainHandler struct {
	deps HandlerDeps
}

func (h explainHandler) Handle(ctx context.Context, msg InboundMessage, cmd Command) {
	log := h.deps.Logger.With("handler", "explain")
	messages := h.deps.Config.Messages

	source := explainSource(msg)
	if source == "" {
		h.deps.reply(ctx, log, msg.ChatID, messages.ExplainNoSource)
		return
	}

	log.InfoContext(ctx, "Explaining message", "chat_id", msg.ChatID, "style", cmd.Arg, "source_chars", len([]rune(source)))
	h.deps.reply(ctx, log, msg.ChatID, h.deps.pick(messages.ExplainPlaceholders))

	explanation, err := h.deps.Gateway.Explain(ctx, source, cmd.Arg)
	if err != nil {
		log.ErrorContext(ctx, "Explain generation failed", "chat_id", msg.ChatID, "error", err)
		h.deps.reply(ctx, log, msg.ChatID, messages.ExplainFailed)
		return
	}

	h.deps.reply(ctx, log, msg.ChatID, explanation)
}

// explainSource prefers the replied-to text and falls back to the quoted texts.
func explainSource(msg InboundMessage) string {
	if msg.ReplyText != "" {
		return msg.ReplyText
	}
	var texts []string
	for _, q := range msg.Quoted {
		if q != "" {
			texts = append(texts, q)
		}
	}
	return strings.Join(texts, "\n\n")
}
