// Package config manages application configuration from a YAML file,
// PLANKA_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration wraps every configuration load or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Day       DayConfig       `mapstructure:"day"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Commands  CommandsConfig  `mapstructure:"commands"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and update delivery settings.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
	// MaxGroupChatID is the largest chat id treated as a group chat.
	// Telegram group and supergroup ids are negative.
	MaxGroupChatID int64         `mapstructure:"max_group_chat_id"`
	SendTimeout    time.Duration `mapstructure:"send_timeout" validate:"min=1s,max=5m"`
	Webhook        WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig enables webhook delivery instead of long polling.
type WebhookConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URL         string `mapstructure:"url" validate:"omitempty,url"`
	Listen      string `mapstructure:"listen" validate:"omitempty,hostname_port"`
	Path        string `mapstructure:"path" validate:"omitempty,startswith=/"`
	SecretToken string `mapstructure:"secret_token" validate:"omitempty,max=256"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path        string        `mapstructure:"path" validate:"required"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout" validate:"min=0,max=1m"`
}

// DayConfig controls where the calendar day boundary falls.
type DayConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// LLMConfig configures the text generation backend.
type LLMConfig struct {
	Provider          string        `mapstructure:"provider" validate:"required,oneof=gemini openai"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url" validate:"omitempty,url"`
	Project           string        `mapstructure:"project"`
	Model             string        `mapstructure:"model" validate:"required"`
	Temperature       float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxOutputTokens   int           `mapstructure:"max_output_tokens" validate:"gt=0"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelay        time.Duration `mapstructure:"retry_delay" validate:"min=0"`
	// BreakerFailures consecutive failures open the circuit for BreakerCooldown. Zero disables it.
	BreakerFailures   int           `mapstructure:"breaker_failures" validate:"min=0"`
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown" validate:"min=0"`
	ContextBudget     int           `mapstructure:"context_budget" validate:"gt=0"`
	StoryDefaultInput string        `mapstructure:"story_default_input" validate:"required"`
	ExplainStyles     []string      `mapstructure:"explain_styles" validate:"required,min=1,dive,required"`
	Prompts           PromptFiles   `mapstructure:"prompts"`
}

// PromptFiles optionally override the embedded system instructions.
type PromptFiles struct {
	Story   string `mapstructure:"story"`
	Judge   string `mapstructure:"judge"`
	Explain string `mapstructure:"explain"`
}

// CommandsConfig holds the trigger tokens. Matching is case-insensitive.
type CommandsConfig struct {
	Record  string `mapstructure:"record" validate:"required"`
	Summary string `mapstructure:"summary" validate:"required"`
	Help    string `mapstructure:"help" validate:"required"`
	Story   string `mapstructure:"story" validate:"required"`
	Judge   string `mapstructure:"judge" validate:"required"`
	Explain string `mapstructure:"explain" validate:"required"`
}

// MessagesConfig holds every user-facing reply text.
type MessagesConfig struct {
	RecordCreatedFmt          string `mapstructure:"record_created_fmt" validate:"required"`
	RecordCreatedWithValueFmt string `mapstructure:"record_created_with_value_fmt" validate:"required"`
	RecordUpdatedFmt          string `mapstructure:"record_updated_fmt" validate:"required"`
	RecordIncrementedFmt      string `mapstructure:"record_incremented_fmt" validate:"required"`
	RecordAlreadyDone         string `mapstructure:"record_already_done" validate:"required"`
	RecordFailed              string `mapstructure:"record_failed" validate:"required"`

	SummaryHeaderFmt    string `mapstructure:"summary_header_fmt" validate:"required"`
	SummaryDoneTitle    string `mapstructure:"summary_done_title" validate:"required"`
	SummaryDoneNone     string `mapstructure:"summary_done_none" validate:"required"`
	SummaryNotDoneTitle string `mapstructure:"summary_not_done_title" validate:"required"`
	SummaryNotDoneNone  string `mapstructure:"summary_not_done_none" validate:"required"`
	SummaryFailed       string `mapstructure:"summary_failed" validate:"required"`

	Help string `mapstructure:"help" validate:"required"`

	StorySuffix       string   `mapstructure:"story_suffix"`
	StoryFailed       string   `mapstructure:"story_failed" validate:"required"`
	StoryPlaceholders []string `mapstructure:"story_placeholders" validate:"required,min=1,dive,required"`

	JudgeNoQuestion   string   `mapstructure:"judge_no_question" validate:"required"`
	JudgeLoadFailed   string   `mapstructure:"judge_load_failed" validate:"required"`
	JudgeFailed       string   `mapstructure:"judge_failed" validate:"required"`
	JudgePlaceholders []string `mapstructure:"judge_placeholders" validate:"required,min=1,dive,required"`

	ExplainNoSource     string   `mapstructure:"explain_no_source" validate:"required"`
	ExplainFailed       string   `mapstructure:"explain_failed" validate:"required"`
	ExplainPlaceholders []string `mapstructure:"explain_placeholders" validate:"required,min=1,dive,required"`
}

// SummaryConfig tunes the daily summary.
type SummaryConfig struct {
	// InactiveAfter hides users from the not-done list once they have been
	// silent for this long. Zero keeps every known user.
	InactiveAfter time.Duration `mapstructure:"inactive_after" validate:"min=0"`
}

// SchedulerConfig lists scheduled tasks by name.
type SchedulerConfig struct {
	Tasks          map[string]TaskConfig `mapstructure:"tasks"`
	SummaryChatIDs []int64               `mapstructure:"summary_chat_ids"`
}

// TaskConfig enables a task on a six-field cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Validate checks field constraints and the cross-field rules validator tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if strings.ContainsAny(c.Commands.Record, " \t") {
		return errors.New("commands.record: must be a single word")
	}

	if c.Telegram.Webhook.Enabled {
		wh := c.Telegram.Webhook
		if wh.URL == "" || wh.Listen == "" || wh.Path == "" {
			return errors.New("telegram.webhook: url, listen and path are required when enabled")
		}
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return fmt.Errorf("scheduler.tasks.%s: schedule is required when enabled", name)
		}
	}
	if task, ok := c.Scheduler.Tasks["daily_summary"]; ok && task.Enabled && len(c.Scheduler.SummaryChatIDs) == 0 {
		return errors.New("scheduler.summary_chat_ids: at least one chat is required for daily_summary")
	}

	return nil
}

// ValidateSecrets checks the credentials needed to talk to Telegram and the LLM.
// Offline commands such as migrate do not need them.
func (c *Config) ValidateSecrets() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required", ErrConfiguration)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required", ErrConfiguration)
	}
	return nil
}

// IsGroupChat reports whether chatID belongs to the group scope the bot serves.
func (c *TelegramConfig) IsGroupChat(chatID int64) bool {
	return chatID <= c.MaxGroupChatID
}
