package database

import (
	"context"
	"errors"
	"fmt"
)

// SaveMessage inserts an organic chat message. A message whose id is already
// stored is ignored, so redelivered updates are safe to save again.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *ChatMessage) error {
	if message == nil {
		return errors.New("cannot save nil message")
	}
	if message.ChatID == 0 || message.Seq == 0 {
		return fmt.Errorf("message must have a chat_id and sequence number (chat %d, seq %d)", message.ChatID, message.Seq)
	}
	if err := validateUser(message.UserID, message.DisplayName); err != nil {
		return err
	}
	if message.Text == "" {
		return errors.New("message must have non-empty text")
	}

	if message.MessageID == "" {
		message.MessageID = MessageKey(message.ChatID, message.Seq)
	}
	if message.MessageDate == "" {
		message.MessageDate = s.clock.Today()
	}
	if message.SentAt.IsZero() {
		message.SentAt = s.clock.Now()
	}
	message.SentAt = message.SentAt.UTC()

	result, err := s.db.NamedExecContext(ctx, `
        INSERT INTO chat_messages (message_id, chat_id, seq, user_id, display_name, message_date, text, sent_at)
        VALUES (:message_id, :chat_id, :seq, :user_id, :display_name, :message_date, :text, :sent_at)
        ON CONFLICT(message_id) DO NOTHING;
    `, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat message", "message_id", message.MessageID, "error", err)
		return fmt.Errorf("failed to save message %s: %w", message.MessageID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "Chat message already stored", "message_id", message.MessageID)
		return nil
	}

	s.logger.DebugContext(ctx, "Chat message saved", "message_id", message.MessageID, "user_id", message.UserID)
	return nil
}

// MessagesForDay returns the chat's messages dated day, oldest first.
func (s *sqlxStore) MessagesForDay(ctx context.Context, chatID int64, day string) ([]ChatMessage, error) {
	if chatID == 0 {
		return nil, errors.New("chat_id cannot be zero")
	}

	var messages []ChatMessage
	err := s.db.SelectContext(ctx, &messages, `
        SELECT message_id, chat_id, seq, user_id, display_name, message_date, text, sent_at
        FROM chat_messages
        WHERE chat_id = ? AND message_date = ?
        ORDER BY sent_at, seq;
    `, chatID, day)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.WarnContext(ctx, "Timed out loading messages", "chat_id", chatID, "day", day)
		} else {
			s.logger.ErrorContext(ctx, "Error loading messages", "chat_id", chatID, "day", day, "error", err)
		}
		return nil, fmt.Errorf("failed to load messages for chat %d on %s: %w", chatID, day, err)
	}

	return messages, nil
}
