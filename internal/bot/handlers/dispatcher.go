// Package handlers classifies group chat messages and runs the matching command.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/edgard/plankabot/internal/database"
)

// Dispatcher routes every inbound group message.
type Dispatcher struct {
	deps     HandlerDeps
	log      *slog.Logger
	triggers Triggers

	record  recordHandler
	summary summaryHandler
	help    helpHandler
	story   storyHandler
	judge   judgeHandler
	explain explainHandler
}

// NewDispatcher creates a Dispatcher. Missing optional dependencies get defaults.
func NewDispatcher(deps HandlerDeps) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Rand == nil {
		deps.Rand = rand.IntN
	}
	if deps.Names == nil {
		deps.Names = SenderNameResolver{}
	}

	return &Dispatcher{
		deps:     deps,
		log:      deps.Logger.With("component", "dispatcher"),
		triggers: TriggersFromConfig(deps.Config.Commands),
		record:   recordHandler{deps},
		summary:  summaryHandler{deps},
		help:     helpHandler{deps},
		story:    storyHandler{deps},
		judge:    judgeHandler{deps},
		explain:  explainHandler{deps},
	}
}

// Handle processes one message: it refreshes the sender, logs organic text
// and runs the classified command. Failures of the first two are logged and
// never block the command.
func (d *Dispatcher) Handle(ctx context.Context, msg InboundMessage) {
	if !d.deps.Config.Telegram.IsGroupChat(msg.ChatID) {
		d.log.DebugContext(ctx, "Ignoring message outside group scope", "chat_id", msg.ChatID)
		return
	}

	name := d.ensureSender(ctx, msg)
	cmd := Classify(msg.Text, d.triggers)

	if !cmd.Kind.IsCommand() {
		d.saveOrganic(ctx, msg, name)
	}

	switch cmd.Kind {
	case KindNone:
	case KindRecordIgnored:
		d.log.DebugContext(ctx, "Ignoring record command with extra arguments", "chat_id", msg.ChatID, "user_id", msg.UserID)
	case KindRecord:
		d.record.Handle(ctx, msg, name, cmd)
	case KindSummary:
		d.summary.Handle(ctx, msg)
	case KindHelp:
		d.help.Handle(ctx, msg)
	case KindStory:
		d.story.Handle(ctx, msg, cmd)
	case KindJudge:
		d.judge.Handle(ctx, msg, cmd)
	case KindExplain:
		d.explain.Handle(ctx, msg, cmd)
	}
}

// ensureSender resolves the sender's name and upserts the user.
// It returns "" when the name is unknown.
func (d *Dispatcher) ensureSender(ctx context.Context, msg InboundMessage) string {
	if msg.UserID == 0 {
		return ""
	}

	name, err := d.deps.Names.ResolveName(ctx, msg)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrNameUnknown) {
			level = slog.LevelDebug
		}
		d.log.Log(ctx, level, "Failed to resolve sender name", "chat_id", msg.ChatID, "user_id", msg.UserID, "error", err)
		return ""
	}

	if err := d.deps.Store.EnsureUser(ctx, msg.UserID, name); err != nil {
		d.log.WarnContext(ctx, "Failed to ensure user", "chat_id", msg.ChatID, "user_id", msg.UserID, "error", err)
	}
	return name
}

// saveOrganic logs trimmed non-command text for the judge transcript.
func (d *Dispatcher) saveOrganic(ctx context.Context, msg InboundMessage, name string) {
	text := strings.TrimSpace(msg.Text)
	if text == "" || name == "" || msg.Seq == 0 || msg.UserID == 0 {
		return
	}

	err := d.deps.Store.SaveMessage(ctx, &database.ChatMessage{
		ChatID:      msg.ChatID,
		Seq:         msg.Seq,
		UserID:      msg.UserID,
		DisplayName: name,
		Text:        text,
		SentAt:      msg.SentAt,
	})
	if err != nil {
		d.log.WarnContext(ctx, "Failed to save chat message", "chat_id", msg.ChatID, "seq", msg.Seq, "error", err)
	}
}
