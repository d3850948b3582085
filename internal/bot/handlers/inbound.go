package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
)

// ErrNameUnknown is returned by a NameResolver that cannot name the sender.
var ErrNameUnknown = errors.New("sender name unknown")

// InboundMessage is a group chat message as seen by the dispatcher.
type InboundMessage struct {
	ChatID int64
	// Seq is the transport's per-chat message number.
	Seq        int64
	UserID     int64
	SenderName string
	Text       string
	// ReplyText is the text of the message this one replies to.
	ReplyText string
	// Quoted holds quoted message texts, used when ReplyText is empty.
	Quoted []string
	SentAt time.Time
}

// FromUpdate converts a Telegram update carrying a text message.
// The second result is false for updates the dispatcher does not handle.
func FromUpdate(update *models.Update) (InboundMessage, bool) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return InboundMessage{}, false
	}
	msg := update.Message

	in := InboundMessage{
		ChatID:     msg.Chat.ID,
		Seq:        int64(msg.ID),
		UserID:     msg.From.ID,
		SenderName: DisplayName(msg.From),
		Text:       msg.Text,
		SentAt:     time.Unix(int64(msg.Date), 0),
	}
	if reply := msg.ReplyToMessage; reply != nil {
		in.ReplyText = reply.Text
		if in.ReplyText == "" {
			in.ReplyText = reply.Caption
		}
	}
	if msg.Quote != nil && msg.Quote.Text != "" {
		in.Quoted = append(in.Quoted, msg.Quote.Text)
	}
	return in, true
}

// DisplayName renders a Telegram user as "First Last", falling back to the username.
func DisplayName(user *models.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" && user.Username != "" {
		name = "@" + user.Username
	}
	return name
}

// SenderNameResolver names the sender from the name carried in the message.
type SenderNameResolver struct{}

// ResolveName returns msg.SenderName or ErrNameUnknown.
func (SenderNameResolver) ResolveName(_ context.Context, msg InboundMessage) (string, error) {
	name := strings.TrimSpace(msg.SenderName)
	if name == "" {
		return "", ErrNameUnknown
	}
	return name, nil
}
