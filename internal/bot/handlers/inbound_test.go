package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/bot/handlers"
)

func TestFromUpdate(t *testing.T) {
	t.Parallel()
	update := &models.Update{
		ID: 7,
		Message: &models.Message{
			ID:   42,
			Date: 1715677200,
			Chat: models.Chat{ID: -100123},
			From: &models.User{ID: 1, FirstName: "Анна", LastName: "Каренина"},
			Text: "объясни по-пацански",
			ReplyToMessage: &models.Message{
				Caption: "подпись к фото",
			},
			Quote: &models.TextQuote{Text: "цитата"},
		},
	}

	got, ok := handlers.FromUpdate(update)
	require.True(t, ok)

	want := handlers.InboundMessage{
		ChatID:     -100123,
		Seq:        42,
		UserID:     1,
		SenderName: "Анна Каренина",
		Text:       "объясни по-пацански",
		ReplyText:  "подпись к фото",
		Quoted:     []string{"цитата"},
		SentAt:     time.Unix(1715677200, 0),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromUpdate() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromUpdateSkipsNonMessages(t *testing.T) {
	t.Parallel()
	for _, u := range []*models.Update{
		nil,
		{ID: 1},
		{ID: 2, Message: &models.Message{ID: 1, Text: "channel post without sender"}},
	} {
		_, ok := handlers.FromUpdate(u)
		assert.False(t, ok)
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		user *models.User
		want string
	}{
		{user: &models.User{FirstName: "Анна", LastName: "Каренина"}, want: "Анна Каренина"},
		{user: &models.User{FirstName: " Борис "}, want: "Борис"},
		{user: &models.User{Username: "goose"}, want: "@goose"},
		{user: &models.User{}, want: ""},
		{user: nil, want: ""},
	}
	for _, tt := range tests {
		if got := handlers.DisplayName(tt.user); got != tt.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}

func TestSenderNameResolver(t *testing.T) {
	t.Parallel()
	var r handlers.SenderNameResolver

	name, err := r.ResolveName(context.Background(), handlers.InboundMessage{SenderName: "Анна"})
	require.NoError(t, err)
	assert.Equal(t, "Анна", name)

	_, err = r.ResolveName(context.Background(), handlers.InboundMessage{SenderName: "  "})
	require.ErrorIs(t, err, handlers.ErrNameUnknown)
}
