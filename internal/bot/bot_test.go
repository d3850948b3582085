package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/edgard/plankabot/internal/bot/tasks"
	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTelegram struct {
	mu             sync.Mutex
	started        chan struct{}
	stopEarly      bool
	setWebhookErr  error
	webhookParams  *tgbot.SetWebhookParams
	deletedWebhook bool
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{started: make(chan struct{})}
}

func (f *fakeTelegram) Start(ctx context.Context) {
	close(f.started)
	if f.stopEarly {
		return
	}
	<-ctx.Done()
}

func (f *fakeTelegram) StartWebhook(ctx context.Context) {
	close(f.started)
	<-ctx.Done()
}

func (f *fakeTelegram) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
}

func (f *fakeTelegram) SetWebhook(_ context.Context, params *tgbot.SetWebhookParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhookParams = params
	return f.setWebhookErr == nil, f.setWebhookErr
}

func (f *fakeTelegram) DeleteWebhook(context.Context, *tgbot.DeleteWebhookParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedWebhook = true
	return true, nil
}

type pingStore struct {
	database.Store
}

func (pingStore) Ping(context.Context) error { return nil }

func newTestBot(t *testing.T, cfg *config.Config, tg *fakeTelegram) *Bot {
	t.Helper()
	sched, err := NewScheduler(discardLogger(), &cfg.Scheduler, time.UTC, nil)
	require.NoError(t, err)
	return NewBot(discardLogger(), cfg, pingStore{}, tg, sched)
}

func TestRunPollingStopsOnCancel(t *testing.T) {
	tg := newFakeTelegram()
	b := newTestBot(t, &config.Config{}, tg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-tg.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, tg.deletedWebhook)
}

func TestRunPollingListenerStopsUnexpectedly(t *testing.T) {
	tg := newFakeTelegram()
	tg.stopEarly = true
	b := newTestBot(t, &config.Config{}, tg)

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped unexpectedly")
}

func TestRunWebhook(t *testing.T) {
	cfg := &config.Config{Telegram: config.TelegramConfig{Webhook: config.WebhookConfig{
		Enabled:     true,
		URL:         "https://example.com/telegram/webhook",
		Listen:      "127.0.0.1:0",
		Path:        "/telegram/webhook",
		SecretToken: "s3cret",
	}}}
	tg := newFakeTelegram()
	b := newTestBot(t, cfg, tg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-tg.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()
	require.NotNil(t, tg.webhookParams)
	assert.Equal(t, "https://example.com/telegram/webhook", tg.webhookParams.URL)
	assert.Equal(t, "s3cret", tg.webhookParams.SecretToken)
	assert.False(t, tg.deletedWebhook)
}

func TestRunWebhookRegistrationFails(t *testing.T) {
	cfg := &config.Config{Telegram: config.TelegramConfig{Webhook: config.WebhookConfig{
		Enabled: true, URL: "https://example.com/hook", Listen: "127.0.0.1:0", Path: "/hook",
	}}}
	tg := newFakeTelegram()
	tg.setWebhookErr = errors.New("bad url")
	b := newTestBot(t, cfg, tg)

	err := b.Run(context.Background())
	require.ErrorIs(t, err, tg.setWebhookErr)
}

func TestSchedulerRunsEnabledTasks(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 1)
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			runs.Add(1)
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
		"disabled": func(context.Context) error { return errors.New("must not run") },
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":     {Enabled: true, Schedule: "* * * * * *"},
		"disabled": {Enabled: false, Schedule: "* * * * * *"},
		"unknown":  {Enabled: true, Schedule: "* * * * * *"},
		"bad":      {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap["bad"] = taskMap["tick"]

	s, err := NewScheduler(discardLogger(), cfg, time.UTC, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.Error(t, s.Start())
	assert.Equal(t, 1, s.JobCount())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled task did not run")
	}

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}
