package database

import (
	"database/sql"
	"fmt"
	"time"
)

// User is a chat participant. IsPrivileged and CreatedAt survive every name refresh.
type User struct {
	UserID       int64     `db:"user_id"`
	DisplayName  string    `db:"display_name"`
	IsPrivileged bool      `db:"is_privileged"`
	CreatedAt    time.Time `db:"created_at"`
	LastActiveAt time.Time `db:"last_active_at"`
}

// PlankRecord is the single daily exercise record of a user.
type PlankRecord struct {
	UserID        int64         `db:"user_id"`
	RecordDate    string        `db:"record_date"`
	MeasuredValue sql.NullInt64 `db:"measured_value"`
	CreatedAt     time.Time     `db:"created_at"`
}

// ChatMessage is an organic chat message kept for the daily transcript.
type ChatMessage struct {
	MessageID   string    `db:"message_id"`
	ChatID      int64     `db:"chat_id"`
	Seq         int64     `db:"seq"`
	UserID      int64     `db:"user_id"`
	DisplayName string    `db:"display_name"`
	MessageDate string    `db:"message_date"`
	Text        string    `db:"text"`
	SentAt      time.Time `db:"sent_at"`
}

// MessageKey builds the chat-unique message id from the chat id and the
// per-chat message sequence number.
func MessageKey(chatID, seq int64) string {
	return fmt.Sprintf("%d_%d", chatID, seq)
}

// Outcome classifies what RecordDaily did.
type Outcome int

const (
	// OutcomeCreated means the first record of the day was inserted.
	OutcomeCreated Outcome = iota + 1
	// OutcomeAlreadyRecorded means a record existed and nothing changed.
	OutcomeAlreadyRecorded
	// OutcomeUpdated means the stored value was replaced.
	OutcomeUpdated
	// OutcomeIncremented means a delta was added to the stored value.
	OutcomeIncremented
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyRecorded:
		return "already_recorded"
	case OutcomeUpdated:
		return "updated"
	case OutcomeIncremented:
		return "incremented"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RecordResult is the outcome of RecordDaily together with the stored state.
type RecordResult struct {
	Outcome Outcome
	Date    string
	// Value is the measured value stored after the operation, nil if none.
	Value *int64
}

// SummaryEntry is a user who has recorded today.
type SummaryEntry struct {
	DisplayName   string        `db:"display_name"`
	MeasuredValue sql.NullInt64 `db:"measured_value"`
}

// Label renders the entry as "Name" or "Name (45)".
func (e SummaryEntry) Label() string {
	if e.MeasuredValue.Valid {
		return fmt.Sprintf("%s (%d)", e.DisplayName, e.MeasuredValue.Int64)
	}
	return e.DisplayName
}

// Summary partitions known users into those who recorded today and those who did not.
type Summary struct {
	Date    string
	Done    []SummaryEntry
	NotDone []string
}

// DoneLabels returns the rendered labels of Done.
func (s Summary) DoneLabels() []string {
	labels := make([]string, 0, len(s.Done))
	for _, e := range s.Done {
		labels = append(labels, e.Label())
	}
	return labels
}
