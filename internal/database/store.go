package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations of the bot.
// Every method accepts a context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// EnsureUser creates the user or refreshes its display name and activity time.
	EnsureUser(ctx context.Context, userID int64, displayName string) error

	// RecordDaily records today's plank for the user, see Outcome for the possible results.
	// A nil value records without a measurement; increment adds value to the stored one.
	RecordDaily(ctx context.Context, userID int64, displayName string, value *int64, increment bool) (RecordResult, error)

	// DailySummary lists who has and has not recorded today.
	DailySummary(ctx context.Context) (Summary, error)

	// SaveMessage appends an organic chat message. Saving the same MessageID twice is a no-op.
	SaveMessage(ctx context.Context, message *ChatMessage) error

	// MessagesForDay returns the chat's logged messages for day in chat order.
	MessagesForDay(ctx context.Context, chatID int64, day string) ([]ChatMessage, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// Clock supplies the day key and timestamps used by the store.
type Clock interface {
	Now() time.Time
	Today() string
}

const (
	maxConflictRetries = 3
	conflictBackoff    = 50 * time.Millisecond
)

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db            *sqlx.DB
	clock         Clock
	logger        *slog.Logger
	inactiveAfter time.Duration
}

// StoreOption customizes the store.
type StoreOption func(*sqlxStore)

// WithInactiveAfter hides users silent for longer than d from the not-done
// part of DailySummary. Zero keeps every known user.
func WithInactiveAfter(d time.Duration) StoreOption {
	return func(s *sqlxStore) {
		s.inactiveAfter = d
	}
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, clock Clock, logger *slog.Logger, opts ...StoreOption) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &sqlxStore{
		db:     db,
		clock:  clock,
		logger: logger.With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// inTx runs fn in a transaction, retrying the whole transaction when SQLite
// reports a lock conflict. Any other error rolls back and is returned as is.
func (s *sqlxStore) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * conflictBackoff):
			}
		}

		err = s.runTx(ctx, fn)
		if err == nil || !IsConflictError(err) {
			return err
		}
		s.logger.WarnContext(ctx, "Transaction conflict, retrying", "operation", op, "attempt", attempt+1, "error", err)
	}
	return err
}

func (s *sqlxStore) runTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil
	return nil
}

// upsertUser refreshes the user's name and activity time, preserving the
// privilege flag and creation time of an existing row.
func (s *sqlxStore) upsertUser(ctx context.Context, tx *sqlx.Tx, userID int64, displayName string, now time.Time) error {
	user := User{
		UserID:       userID,
		DisplayName:  displayName,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	var existing User
	err := tx.GetContext(ctx, &existing, `
        SELECT user_id, display_name, is_privileged, created_at, last_active_at
        FROM users
        WHERE user_id = ?;
    `, userID)
	switch {
	case err == nil:
		user.IsPrivileged = existing.IsPrivileged
		user.CreatedAt = existing.CreatedAt
	case errors.Is(err, sql.ErrNoRows):
	default:
		return fmt.Errorf("failed to read user %d: %w", userID, err)
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO users (user_id, display_name, is_privileged, created_at, last_active_at)
        VALUES (:user_id, :display_name, :is_privileged, :created_at, :last_active_at)
        ON CONFLICT(user_id) DO UPDATE SET
            display_name = excluded.display_name,
            is_privileged = excluded.is_privileged,
            created_at = excluded.created_at,
            last_active_at = excluded.last_active_at;
    `, user)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}
	return nil
}

// EnsureUser creates or refreshes the user row.
func (s *sqlxStore) EnsureUser(ctx context.Context, userID int64, displayName string) error {
	if err := validateUser(userID, displayName); err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	err := s.inTx(ctx, "ensure_user", func(tx *sqlx.Tx) error {
		return s.upsertUser(ctx, tx, userID, displayName, now)
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "User ensured", "user_id", userID)
	return nil
}

// RunSQLMaintenance executes VACUUM and lets SQLite refresh its query planner statistics.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM cannot run inside a transaction.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}

func validateUser(userID int64, displayName string) error {
	if userID == 0 {
		return errors.New("user_id cannot be zero")
	}
	if displayName == "" {
		return fmt.Errorf("display name is required for user %d", userID)
	}
	return nil
}
