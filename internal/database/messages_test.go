package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/database"
)

const groupChat int64 = -1001

func TestMessageKey(t *testing.T) {
	t.Parallel()
	if got, want := database.MessageKey(-1001, 42), "-1001_42"; got != want {
		t.Errorf("MessageKey() = %q, want %q", got, want)
	}
}

func TestSaveMessageIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, db := newTestStore(t, newTestClock(day1))

	msg := database.ChatMessage{ChatID: groupChat, Seq: 5, UserID: 1, DisplayName: "Анна", Text: "привет"}
	first := msg
	require.NoError(t, store.SaveMessage(ctx, &first))
	assert.Equal(t, "-1001_5", first.MessageID)
	assert.Equal(t, "2024-05-14", first.MessageDate)

	replay := msg
	replay.Text = "привет (повтор)"
	require.NoError(t, store.SaveMessage(ctx, &replay))

	var texts []string
	require.NoError(t, db.Select(&texts, `SELECT text FROM chat_messages`))
	assert.Equal(t, []string{"привет"}, texts)
}

func TestSaveMessageValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t, newTestClock(day1))

	tests := []struct {
		name string
		msg  *database.ChatMessage
	}{
		{name: "nil", msg: nil},
		{name: "zero seq", msg: &database.ChatMessage{ChatID: groupChat, UserID: 1, DisplayName: "A", Text: "x"}},
		{name: "zero chat", msg: &database.ChatMessage{Seq: 1, UserID: 1, DisplayName: "A", Text: "x"}},
		{name: "no user", msg: &database.ChatMessage{ChatID: groupChat, Seq: 1, DisplayName: "A", Text: "x"}},
		{name: "no name", msg: &database.ChatMessage{ChatID: groupChat, Seq: 1, UserID: 1, Text: "x"}},
		{name: "empty text", msg: &database.ChatMessage{ChatID: groupChat, Seq: 1, UserID: 1, DisplayName: "A"}},
	}
	for _, tt := range tests {
		assert.Error(t, store.SaveMessage(ctx, tt.msg), tt.name)
	}
}

func TestMessagesForDayFiltersAndOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := newTestClock(day1)
	store, _ := newTestStore(t, clk)

	save := func(chatID, seq, userID int64, name, text string) {
		t.Helper()
		require.NoError(t, store.SaveMessage(ctx, &database.ChatMessage{
			ChatID: chatID, Seq: seq, UserID: userID, DisplayName: name, Text: text,
		}))
	}

	save(groupChat, 3, 2, "Борис", "третье")
	save(groupChat, 1, 1, "Анна", "первое")
	save(-2002, 2, 1, "Анна", "другой чат")
	save(groupChat, 2, 1, "Анна", "второе")

	clk.Set(day1.Add(24 * time.Hour))
	save(groupChat, 4, 1, "Анна", "завтра")

	got, err := store.MessagesForDay(ctx, groupChat, "2024-05-14")
	require.NoError(t, err)

	texts := make([]string, 0, len(got))
	for _, m := range got {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"первое", "второе", "третье"}, texts)

	_, err = store.MessagesForDay(ctx, 0, "2024-05-14")
	assert.Error(t, err)
}

func TestIsConflictError(t *testing.T) {
	t.Parallel()

	assert.False(t, database.IsConflictError(nil))
	assert.False(t, database.IsConflictError(assert.AnError))
	assert.True(t, database.IsConflictError(errorString("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, database.IsConflictError(errorString("database is locked")))
}

type errorString string

func (e errorString) Error() string { return string(e) }
