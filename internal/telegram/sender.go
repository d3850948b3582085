package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MaxMessageLength is the Bot API limit on message text, in characters.
const MaxMessageLength = 4096

// MessageAPI is the sending part of *bot.Bot.
type MessageAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Sender sends plain text replies, splitting texts over the Bot API limit.
type Sender struct {
	api     MessageAPI
	timeout time.Duration
	log     *slog.Logger
}

// NewSender creates a Sender. A zero timeout leaves the caller's context as is.
func NewSender(api MessageAPI, timeout time.Duration, log *slog.Logger) *Sender {
	return &Sender{
		api:     api,
		timeout: timeout,
		log:     log.With("component", "telegram_sender"),
	}
}

// Send delivers text to chatID.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("refusing to send empty message to chat %d", chatID)
	}

	for _, chunk := range splitMessage(text, MaxMessageLength) {
		if err := s.sendOne(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) sendOne(ctx context.Context, chatID int64, text string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	_, err := s.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	s.log.DebugContext(ctx, "Message sent", "chat_id", chatID, "chars", len([]rune(text)))
	return nil
}

// splitMessage cuts text into chunks of at most limit characters,
// preferring to break after a newline.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}
