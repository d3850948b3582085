package handlers

import (
	"context"
)

// judgeHandler answers "who is the X of the day" questions from today's chat.
type judgeHandler struct {
	deps HandlerDeps
}

func (h judgeHandler) Handle(ctx context.Context, msg InboundMessage, cmd Command) {
	log := h.deps.Logger.With("handler", "judge")
	messages := h.deps.Config.Messages

	if cmd.Arg == "" {
		h.deps.reply(ctx, log, msg.ChatID, messages.JudgeNoQuestion)
		return
	}

	log.InfoContext(ctx, "Judging the day", "chat_id", msg.ChatID, "question", cmd.Arg)
	h.deps.reply(ctx, log, msg.ChatID, h.deps.pick(messages.JudgePlaceholders))

	users, err := h.deps.Transcript.MessagesForToday(ctx, msg.ChatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load today's transcript", "chat_id", msg.ChatID, "error", err)
		h.deps.reply(ctx, log, msg.ChatID, messages.JudgeLoadFailed)
		return
	}

	verdict, err := h.deps.Gateway.JudgeDay(ctx, cmd.Arg, users)
	if err != nil {
		log.ErrorContext(ctx, "Judge generation failed", "chat_id", msg.ChatID, "users", len(users), "error", err)
		h.deps.reply(ctx, log, msg.ChatID, messages.JudgeFailed)
		return
	}

	h.deps.reply(ctx, log, msg.ChatID, verdict)
}
