package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
	"github.com/edgard/plankabot/internal/transcript"
)

// Sender delivers a text reply to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// NameResolver returns the display name of the message sender.
type NameResolver interface {
	ResolveName(ctx context.Context, msg InboundMessage) (string, error)
}

// TranscriptSource returns today's organic messages of a chat grouped by user.
type TranscriptSource interface {
	MessagesForToday(ctx context.Context, chatID int64) ([]transcript.UserMessages, error)
}

// Gateway generates the LLM-backed replies.
type Gateway interface {
	Story(ctx context.Context, extra string) (string, error)
	JudgeDay(ctx context.Context, question string, users []transcript.UserMessages) (string, error)
	Explain(ctx context.Context, text, style string) (string, error)
}

// HandlerDeps provides dependencies for the command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Transcript TranscriptSource
	Gateway    Gateway
	Sender     Sender
	Names      NameResolver
	// Rand returns a number in [0, n). Used to pick placeholder replies.
	Rand func(n int) int
}

// pick returns a random element of options, or "" when there are none.
func (d HandlerDeps) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[d.Rand(len(options))]
}

// reply sends text and logs a failed delivery.
func (d HandlerDeps) reply(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	if err := d.Sender.Send(ctx, chatID, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}
