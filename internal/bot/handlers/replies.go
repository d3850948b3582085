package handlers

import (
	"fmt"
	"strings"

	"github.com/edgard/plankabot/internal/config"
	"github.com/edgard/plankabot/internal/database"
)

// FormatRecordReply renders the reply for a RecordDaily result.
// delta is the parsed increment, used by the incremented reply.
func FormatRecordReply(m config.MessagesConfig, res database.RecordResult, delta int64) string {
	switch res.Outcome {
	case database.OutcomeCreated:
		if res.Value != nil {
			return fmt.Sprintf(m.RecordCreatedWithValueFmt, res.Date, *res.Value)
		}
		return fmt.Sprintf(m.RecordCreatedFmt, res.Date)
	case database.OutcomeUpdated:
		return fmt.Sprintf(m.RecordUpdatedFmt, valueOf(res.Value))
	case database.OutcomeIncremented:
		return fmt.Sprintf(m.RecordIncrementedFmt, delta, valueOf(res.Value))
	default:
		return m.RecordAlreadyDone
	}
}

// FormatSummary renders the daily summary: header, done list, a blank line, not-done list.
func FormatSummary(m config.MessagesConfig, s database.Summary) string {
	lines := []string{fmt.Sprintf(m.SummaryHeaderFmt, s.Date)}

	if len(s.Done) > 0 {
		lines = append(lines, m.SummaryDoneTitle, strings.Join(s.DoneLabels(), ", "))
	} else {
		lines = append(lines, m.SummaryDoneNone)
	}

	lines = append(lines, "")
	if len(s.NotDone) > 0 {
		lines = append(lines, m.SummaryNotDoneTitle, strings.Join(s.NotDone, ", "))
	} else {
		lines = append(lines, m.SummaryNotDoneNone)
	}

	return strings.Join(lines, "\n")
}

func valueOf(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
