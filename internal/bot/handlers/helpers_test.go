package handlers_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/bot/handlers"
	"github.com/edgard/plankabot/internal/clock"
	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
	"github.com/edgard/plankabot/internal/transcript"
)

const testChat int64 = -100123

var testDay = time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) Send(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (s *fakeSender) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		texts = append(texts, m.Text)
	}
	return texts
}

func (s *fakeSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

type fakeGateway struct {
	mu sync.Mutex

	reply string
	err   error

	storyArgs   []string
	judgeCalls  []string
	judgeUsers  [][]transcript.UserMessages
	explainArgs [][2]string
}

func (g *fakeGateway) Story(_ context.Context, extra string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.storyArgs = append(g.storyArgs, extra)
	return g.reply, g.err
}

func (g *fakeGateway) JudgeDay(_ context.Context, question string, users []transcript.UserMessages) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.judgeCalls = append(g.judgeCalls, question)
	g.judgeUsers = append(g.judgeUsers, users)
	return g.reply, g.err
}

func (g *fakeGateway) Explain(_ context.Context, text, style string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.explainArgs = append(g.explainArgs, [2]string{text, style})
	return g.reply, g.err
}

type failingTranscript struct{}

func (failingTranscript) MessagesForToday(context.Context, int64) ([]transcript.UserMessages, error) {
	return nil, errors.New("transcript unavailable")
}

// failingStore fails every call.
type failingStore struct {
	database.Store
}

var errStore = errors.New("store unavailable")

func (failingStore) EnsureUser(context.Context, int64, string) error { return errStore }

func (failingStore) RecordDaily(context.Context, int64, string, *int64, bool) (database.RecordResult, error) {
	return database.RecordResult{}, errStore
}

func (failingStore) DailySummary(context.Context) (database.Summary, error) {
	return database.Summary{}, errStore
}

func (failingStore) SaveMessage(context.Context, *database.ChatMessage) error { return errStore }

type staticNames map[int64]string

func (n staticNames) ResolveName(_ context.Context, msg handlers.InboundMessage) (string, error) {
	name, ok := n[msg.UserID]
	if !ok {
		return "", handlers.ErrNameUnknown
	}
	return name, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Telegram: config.TelegramConfig{MaxGroupChatID: config.DefaultMaxGroupChatID},
		Commands: config.CommandsConfig{
			Record:  config.DefaultRecordCommand,
			Summary: config.DefaultSummaryCommand,
			Help:    config.DefaultHelpCommand,
			Story:   config.DefaultStoryCommand,
			Judge:   config.DefaultJudgeCommand,
			Explain: config.DefaultExplainCommand,
		},
		Messages: config.DefaultMessages,
	}
}

type testEnv struct {
	dispatcher *handlers.Dispatcher
	store      database.Store
	db         *sqlx.DB
	sender     *fakeSender
	gateway    *fakeGateway
	seq        int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "plank.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	clk := clock.Fixed(testDay)
	store := database.NewStore(db, clk, nil)
	env := &testEnv{
		store:   store,
		db:      db,
		sender:  &fakeSender{},
		gateway: &fakeGateway{reply: "ответ"},
	}
	env.dispatcher = handlers.NewDispatcher(handlers.HandlerDeps{
		Config:     testConfig(),
		Store:      store,
		Transcript: transcript.NewAggregator(store, clk, nil),
		Gateway:    env.gateway,
		Sender:     env.sender,
		Names:      staticNames{1: "Анна", 2: "Борис", 3: "Вера"},
		Rand:       func(int) int { return 0 },
	})
	return env
}

func (e *testEnv) send(userID int64, text string) {
	e.seq++
	e.dispatcher.Handle(context.Background(), handlers.InboundMessage{
		ChatID: testChat,
		Seq:    e.seq,
		UserID: userID,
		Text:   text,
		SentAt: testDay,
	})
}

func (e *testEnv) loggedTexts(t *testing.T) []string {
	t.Helper()
	var texts []string
	require.NoError(t, e.db.Select(&texts, `SELECT text FROM chat_messages ORDER BY seq`))
	return texts
}
