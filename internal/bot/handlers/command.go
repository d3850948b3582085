package handlers

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/edgard/plankabot/internal/config"
)

// Kind is the closed set of message classifications.
type Kind int

const (
	// KindNone is organic chat text.
	KindNone Kind = iota
	// KindRecord records today's plank.
	KindRecord
	// KindRecordIgnored is a record command with extra tokens. It gets no reply.
	KindRecordIgnored
	// KindSummary shows today's summary.
	KindSummary
	// KindHelp shows the command guide.
	KindHelp
	// KindStory asks for a goose story.
	KindStory
	// KindJudge picks the person of the day from the chat transcript.
	KindJudge
	// KindExplain retells a replied-to message.
	KindExplain
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRecord:
		return "record"
	case KindRecordIgnored:
		return "record_ignored"
	case KindSummary:
		return "summary"
	case KindHelp:
		return "help"
	case KindStory:
		return "story"
	case KindJudge:
		return "judge"
	case KindExplain:
		return "explain"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsCommand reports whether k is any bot command.
func (k Kind) IsCommand() bool {
	return k != KindNone
}

// Command is a classified message with its parsed arguments.
type Command struct {
	Kind Kind
	// Value is the record argument, nil when absent or not a number.
	Value *int64
	// Increment is set for "+N" record arguments.
	Increment bool
	// Arg is the raw text after an LLM trigger, trimmed.
	Arg string
}

// Triggers are the lower-cased command tokens.
type Triggers struct {
	Record  string
	Summary string
	Help    string
	Story   string
	Judge   string
	Explain string
}

// TriggersFromConfig lower-cases the configured command tokens.
func TriggersFromConfig(c config.CommandsConfig) Triggers {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return Triggers{
		Record:  norm(c.Record),
		Summary: norm(c.Summary),
		Help:    norm(c.Help),
		Story:   norm(c.Story),
		Judge:   norm(c.Judge),
		Explain: norm(c.Explain),
	}
}

// Classify matches text against the triggers, case-insensitively.
// The record trigger must be the first word and takes at most one argument,
// summary and help must match the whole text, the LLM triggers match a prefix.
func Classify(text string, t Triggers) Command {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)
	fields := strings.Fields(lower)

	switch {
	case len(fields) > 0 && fields[0] == t.Record:
		if len(fields) > 2 {
			return Command{Kind: KindRecordIgnored}
		}
		cmd := Command{Kind: KindRecord}
		if len(fields) == 2 {
			cmd.Value, cmd.Increment = parseRecordArg(fields[1])
		}
		return cmd
	case lower == t.Summary:
		return Command{Kind: KindSummary}
	case lower == t.Help:
		return Command{Kind: KindHelp}
	case strings.HasPrefix(lower, t.Story):
		return Command{Kind: KindStory, Arg: textAfter(raw, t.Story)}
	case strings.HasPrefix(lower, t.Judge):
		return Command{Kind: KindJudge, Arg: textAfter(raw, t.Judge)}
	case strings.HasPrefix(lower, t.Explain):
		return Command{Kind: KindExplain, Arg: textAfter(raw, t.Explain)}
	default:
		return Command{Kind: KindNone}
	}
}

// parseRecordArg reads "+N" as an increment and "N" as an absolute value.
func parseRecordArg(arg string) (*int64, bool) {
	increment := false
	if rest, ok := strings.CutPrefix(arg, "+"); ok {
		arg, increment = rest, true
	}
	if arg == "" || strings.TrimLeft(arg, "0123456789") != "" {
		return nil, false
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, increment
}

// textAfter strips a case-insensitive trigger prefix from raw and trims the rest.
// Lower-casing maps rune to rune, so the prefix length is counted in runes.
func textAfter(raw, trigger string) string {
	n := utf8.RuneCountInString(trigger)
	for i := range raw {
		if n == 0 {
			return strings.TrimSpace(raw[i:])
		}
		n--
	}
	return ""
}
