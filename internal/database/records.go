package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
)

// RecordDaily upserts the user and reconciles today's record in one transaction:
//
//	no record                  -> insert value, OutcomeCreated
//	record, value == nil       -> no change, OutcomeAlreadyRecorded
//	record, value, !increment  -> replace, OutcomeUpdated
//	record, value, increment   -> stored (or 0) + value, OutcomeIncremented
//
// An increment whose sum would overflow int64 fails with ErrValueOutOfRange
// and leaves the record unchanged.
func (s *sqlxStore) RecordDaily(ctx context.Context, userID int64, displayName string, value *int64, increment bool) (RecordResult, error) {
	if err := validateUser(userID, displayName); err != nil {
		return RecordResult{}, err
	}

	today := s.clock.Today()
	now := s.clock.Now().UTC()

	var result RecordResult
	err := s.inTx(ctx, "record_daily", func(tx *sqlx.Tx) error {
		if err := s.upsertUser(ctx, tx, userID, displayName, now); err != nil {
			return err
		}

		var existing PlankRecord
		err := tx.GetContext(ctx, &existing, `
            SELECT user_id, record_date, measured_value, created_at
            FROM plank_records
            WHERE user_id = ? AND record_date = ?;
        `, userID, today)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			rec := PlankRecord{UserID: userID, RecordDate: today, CreatedAt: now}
			if value != nil {
				rec.MeasuredValue = sql.NullInt64{Int64: *value, Valid: true}
			}
			if _, err := tx.NamedExecContext(ctx, `
                INSERT INTO plank_records (user_id, record_date, measured_value, created_at)
                VALUES (:user_id, :record_date, :measured_value, :created_at);
            `, rec); err != nil {
				return fmt.Errorf("failed to insert plank record: %w", err)
			}
			result = RecordResult{Outcome: OutcomeCreated, Date: today, Value: nullToPtr(rec.MeasuredValue)}
			return nil

		case err != nil:
			return fmt.Errorf("failed to read plank record: %w", err)

		case value == nil:
			result = RecordResult{Outcome: OutcomeAlreadyRecorded, Date: today, Value: nullToPtr(existing.MeasuredValue)}
			return nil
		}

		newValue, outcome := *value, OutcomeUpdated
		if increment {
			base := existing.MeasuredValue.Int64
			if *value > math.MaxInt64-base {
				return fmt.Errorf("%w: %d + %d", ErrValueOutOfRange, base, *value)
			}
			newValue, outcome = base+*value, OutcomeIncremented
		}

		if _, err := tx.ExecContext(ctx, `
            UPDATE plank_records SET measured_value = ?
            WHERE user_id = ? AND record_date = ?;
        `, newValue, userID, today); err != nil {
			return fmt.Errorf("failed to update plank record: %w", err)
		}
		result = RecordResult{Outcome: outcome, Date: today, Value: &newValue}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to record daily plank", "user_id", userID, "error", err)
		return RecordResult{}, err
	}

	s.logger.InfoContext(ctx, "Daily plank recorded", "user_id", userID, "date", today, "outcome", result.Outcome.String())
	return result, nil
}

// DailySummary reads both halves of the summary in one transaction so a user
// is never counted as both done and not done.
func (s *sqlxStore) DailySummary(ctx context.Context) (Summary, error) {
	summary := Summary{Date: s.clock.Today()}

	notDoneQuery := `
        SELECT display_name
        FROM users
        WHERE user_id NOT IN (SELECT user_id FROM plank_records WHERE record_date = ?)`
	notDoneArgs := []any{summary.Date}
	if s.inactiveAfter > 0 {
		// Compared as instants rather than text. Timestamps must stay in a format
		// julianday parses, which _time_format=sqlite in BuildDSN guarantees.
		notDoneQuery += ` AND julianday(last_active_at) >= julianday(?)`
		notDoneArgs = append(notDoneArgs, s.clock.Now().UTC().Add(-s.inactiveAfter))
	}
	notDoneQuery += ` ORDER BY display_name;`

	err := s.inTx(ctx, "daily_summary", func(tx *sqlx.Tx) error {
		var done []SummaryEntry
		if err := tx.SelectContext(ctx, &done, `
            SELECT u.display_name, r.measured_value
            FROM plank_records r
            JOIN users u ON u.user_id = r.user_id
            WHERE r.record_date = ?
            ORDER BY r.created_at, u.display_name;
        `, summary.Date); err != nil {
			return fmt.Errorf("failed to select done users: %w", err)
		}

		var notDone []string
		if err := tx.SelectContext(ctx, &notDone, notDoneQuery, notDoneArgs...); err != nil {
			return fmt.Errorf("failed to select not-done users: %w", err)
		}

		summary.Done, summary.NotDone = done, notDone
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build daily summary", "date", summary.Date, "error", err)
		return Summary{}, err
	}

	return summary, nil
}

func nullToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
