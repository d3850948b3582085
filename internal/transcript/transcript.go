// Package transcript collects today's organic chat messages per participant
// and renders them into a bounded LLM input.
package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/edgard/plankabot/internal/database"
)

// DefaultBudget is the total character budget shared by all participants.
// It approximates 31k tokens at roughly three characters per token.
const DefaultBudget = 31_000 * 3

const bullet = "  — "

// lineOverhead is what rendering adds around each kept message.
var lineOverhead = utf8.RuneCountInString("\n" + bullet)

// UserMessages is one participant's messages, oldest first.
type UserMessages struct {
	UserID int64
	Name   string
	Texts  []string
}

// MessageReader is the part of the store the aggregator needs.
type MessageReader interface {
	MessagesForDay(ctx context.Context, chatID int64, day string) ([]database.ChatMessage, error)
}

// DayClock supplies the current day key.
type DayClock interface {
	Today() string
}

// Aggregator groups the day's message log by participant.
type Aggregator struct {
	store  MessageReader
	clock  DayClock
	logger *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(store MessageReader, clock DayClock, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{
		store:  store,
		clock:  clock,
		logger: logger.With("component", "transcript"),
	}
}

// MessagesForToday returns today's messages of the chat grouped by user.
// Users appear in order of their first message and carry the most recent
// display name they wrote under.
func (a *Aggregator) MessagesForToday(ctx context.Context, chatID int64) ([]UserMessages, error) {
	day := a.clock.Today()
	messages, err := a.store.MessagesForDay(ctx, chatID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	users := Group(messages)
	a.logger.DebugContext(ctx, "Transcript loaded", "chat_id", chatID, "day", day, "messages", len(messages), "users", len(users))
	return users, nil
}

// Group groups chronologically ordered messages by user id.
func Group(messages []database.ChatMessage) []UserMessages {
	index := make(map[int64]int)
	var users []UserMessages
	for _, m := range messages {
		i, ok := index[m.UserID]
		if !ok {
			i = len(users)
			index[m.UserID] = i
			users = append(users, UserMessages{UserID: m.UserID})
		}
		users[i].Name = m.DisplayName
		users[i].Texts = append(users[i].Texts, m.Text)
	}
	return users
}

// BuildPrompt renders the judge input for question. The budget is split
// evenly between users; each user keeps their newest messages that fit,
// the oldest kept message being cut to the remaining share. A message is
// charged its rendered length, bullet and line break included. Lengths are
// counted in characters, not bytes.
func BuildPrompt(question string, users []UserMessages, budget int) string {
	if len(users) == 0 {
		return fmt.Sprintf("Вопрос: %s\n\nСообщений в чате за сегодня нет.", question)
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	perUser := budget / len(users)
	sections := make([]string, 0, len(users))
	for _, u := range users {
		selected := selectNewest(u.Texts, perUser)

		var b strings.Builder
		b.WriteString(u.Name)
		b.WriteString(":\n")
		for i, m := range selected {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(bullet)
			b.WriteString(m)
		}
		sections = append(sections, b.String())
	}

	return fmt.Sprintf("Вопрос: %s\n\nПереписка участников за сегодня:\n\n%s", question, strings.Join(sections, "\n\n"))
}

// selectNewest walks texts newest first, taking at most limit rendered
// characters in total, and returns the kept texts in chronological order.
func selectNewest(texts []string, limit int) []string {
	var selected []string
	remaining := limit
	for i := len(texts) - 1; i >= 0 && remaining > lineOverhead; i-- {
		chunk := truncateRunes(texts[i], remaining-lineOverhead)
		selected = append(selected, chunk)
		remaining -= utf8.RuneCountInString(chunk) + lineOverhead
	}
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
