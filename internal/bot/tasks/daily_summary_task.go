package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgard/plankabot/internal/bot/handlers"
)

// newDailySummaryTask posts today's summary to every configured chat.
// A failed chat does not stop delivery to the others.
func newDailySummaryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", DailySummaryTask)

	return func(ctx context.Context) error {
		chatIDs := deps.Config.Scheduler.SummaryChatIDs
		if len(chatIDs) == 0 {
			log.WarnContext(ctx, "No summary chats configured, skipping")
			return nil
		}

		summary, err := deps.Store.DailySummary(ctx)
		if err != nil {
			return fmt.Errorf("failed to load daily summary: %w", err)
		}
		text := handlers.FormatSummary(deps.Config.Messages, summary)

		var errs []error
		for _, chatID := range chatIDs {
			if err := deps.Sender.Send(ctx, chatID, text); err != nil {
				log.ErrorContext(ctx, "Failed to post daily summary", "chat_id", chatID, "error", err)
				errs = append(errs, err)
				continue
			}
			log.InfoContext(ctx, "Daily summary posted", "chat_id", chatID, "date", summary.Date)
		}
		return errors.Join(errs...)
	}
}
