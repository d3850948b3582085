package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration in increasing order of precedence:
//  1. built-in defaults
//  2. the YAML file at path, or ./config.yaml when path is empty
//  3. PLANKA_* environment variables
//
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// setDefaults registers every key so that environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.max_group_chat_id", DefaultMaxGroupChatID)
	v.SetDefault("telegram.send_timeout", DefaultSendTimeout)
	v.SetDefault("telegram.webhook.enabled", false)
	v.SetDefault("telegram.webhook.url", "")
	v.SetDefault("telegram.webhook.listen", DefaultWebhookListen)
	v.SetDefault("telegram.webhook.path", DefaultWebhookPath)
	v.SetDefault("telegram.webhook.secret_token", "")

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.busy_timeout", DefaultBusyTimeout)

	v.SetDefault("day.timezone", DefaultTimezone)

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.project", "")
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.max_output_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.retry_delay", DefaultLLMRetryDelay)
	v.SetDefault("llm.breaker_failures", DefaultBreakerFailures)
	v.SetDefault("llm.breaker_cooldown", DefaultBreakerCooldown)
	v.SetDefault("llm.context_budget", DefaultContextBudget)
	v.SetDefault("llm.story_default_input", DefaultStoryInput)
	v.SetDefault("llm.explain_styles", DefaultExplainStyles)
	v.SetDefault("llm.prompts.story", "")
	v.SetDefault("llm.prompts.judge", "")
	v.SetDefault("llm.prompts.explain", "")

	v.SetDefault("commands.record", DefaultRecordCommand)
	v.SetDefault("commands.summary", DefaultSummaryCommand)
	v.SetDefault("commands.help", DefaultHelpCommand)
	v.SetDefault("commands.story", DefaultStoryCommand)
	v.SetDefault("commands.judge", DefaultJudgeCommand)
	v.SetDefault("commands.explain", DefaultExplainCommand)

	m := DefaultMessages
	v.SetDefault("messages.record_created_fmt", m.RecordCreatedFmt)
	v.SetDefault("messages.record_created_with_value_fmt", m.RecordCreatedWithValueFmt)
	v.SetDefault("messages.record_updated_fmt", m.RecordUpdatedFmt)
	v.SetDefault("messages.record_incremented_fmt", m.RecordIncrementedFmt)
	v.SetDefault("messages.record_already_done", m.RecordAlreadyDone)
	v.SetDefault("messages.record_failed", m.RecordFailed)
	v.SetDefault("messages.summary_header_fmt", m.SummaryHeaderFmt)
	v.SetDefault("messages.summary_done_title", m.SummaryDoneTitle)
	v.SetDefault("messages.summary_done_none", m.SummaryDoneNone)
	v.SetDefault("messages.summary_not_done_title", m.SummaryNotDoneTitle)
	v.SetDefault("messages.summary_not_done_none", m.SummaryNotDoneNone)
	v.SetDefault("messages.summary_failed", m.SummaryFailed)
	v.SetDefault("messages.help", m.Help)
	v.SetDefault("messages.story_suffix", m.StorySuffix)
	v.SetDefault("messages.story_failed", m.StoryFailed)
	v.SetDefault("messages.story_placeholders", m.StoryPlaceholders)
	v.SetDefault("messages.judge_no_question", m.JudgeNoQuestion)
	v.SetDefault("messages.judge_load_failed", m.JudgeLoadFailed)
	v.SetDefault("messages.judge_failed", m.JudgeFailed)
	v.SetDefault("messages.judge_placeholders", m.JudgePlaceholders)
	v.SetDefault("messages.explain_no_source", m.ExplainNoSource)
	v.SetDefault("messages.explain_failed", m.ExplainFailed)
	v.SetDefault("messages.explain_placeholders", m.ExplainPlaceholders)

	v.SetDefault("summary.inactive_after", 0)

	v.SetDefault("scheduler.tasks", map[string]any{
		"sql_maintenance": map[string]any{"enabled": true, "schedule": DefaultMaintenanceCron},
		"daily_summary":   map[string]any{"enabled": false, "schedule": DefaultSummaryCron},
	})
	v.SetDefault("scheduler.summary_chat_ids", []int64{})
}
