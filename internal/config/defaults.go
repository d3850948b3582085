package config

import "time"

// EnvPrefix is the prefix of environment variable overrides, e.g. PLANKA_TELEGRAM_TOKEN.
const EnvPrefix = "PLANKA"

// LLM providers accepted by llm.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultMaxGroupChatID  = -1
	DefaultSendTimeout     = 15 * time.Second
	DefaultWebhookListen   = ":8080"
	DefaultWebhookPath     = "/telegram/webhook"
	DefaultDatabasePath    = "plankabot.db"
	DefaultBusyTimeout     = 5 * time.Second
	DefaultTimezone        = "Europe/Moscow"
	DefaultLLMProvider     = ProviderOpenAI
	DefaultLLMBaseURL      = "https://ai.api.cloud.yandex.net/v1"
	DefaultLLMModel        = "yandexgpt/rc"
	DefaultLLMTemperature  = 0.9
	DefaultLLMMaxTokens    = 300
	DefaultLLMTimeout      = 2 * time.Minute
	DefaultLLMRetryDelay   = 2 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = time.Minute
	DefaultContextBudget   = 31_000 * 3
	DefaultStoryInput      = "просто история"
	DefaultRecordCommand   = "планка"
	DefaultSummaryCommand  = "стата"
	DefaultHelpCommand     = "гайд"
	DefaultStoryCommand    = "ебать гусей"
	DefaultJudgeCommand    = "кто сегодня"
	DefaultExplainCommand  = "объясни"
	DefaultMaintenanceCron = "0 0 4 * * 1"
	DefaultSummaryCron     = "0 0 22 * * *"
)

// DefaultExplainStyles are picked from at random when an explain command names no style.
var DefaultExplainStyles = []string{
	"по-пацански",
	"как Шекспир",
	"как диктор советского радио",
	"как рэпер из 90-х",
	"как уставший учитель химии",
	"как стартапер на питче",
	"как бабушка на лавочке",
	"как футбольный комментатор",
	"как военный на брифинге",
	"как философ-экзистенциалист",
}

// DefaultMessages are the Russian reply texts the bot ships with.
var DefaultMessages = MessagesConfig{
	RecordCreatedFmt:          "%s планка сделана",
	RecordCreatedWithValueFmt: "%s планка сделана (%d)",
	RecordUpdatedFmt:          "планка обновлена (%d) 💪",
	RecordIncrementedFmt:      "планка обновлена (+%d = %d) 💪",
	RecordAlreadyDone:         "планка уже сделана",
	RecordFailed:              "Не получилось записать планку. Попробуй позже.",

	SummaryHeaderFmt:    "Стата за %s:",
	SummaryDoneTitle:    "Сделали планку:",
	SummaryDoneNone:     "Сделали планку: никто",
	SummaryNotDoneTitle: "Не сделали планку:",
	SummaryNotDoneNone:  "Все отметились или ещё никто не добавлен в базу",
	SummaryFailed:       "Не получилось собрать стату. Попробуй позже.",

	Help: "Гайд по командам:\n" +
		"• планка — отметить, что ты сделал(а) планку сегодня.\n" +
		"• планка X — отметить планку с указанием числа секунд X.\n" +
		"  Если планка уже записана, значение X обновит результат.\n" +
		"• планка +X — добавить X секунд к сегодняшнему результату.\n" +
		"• стата — показать, кто сегодня сделал планку и кто нет.\n" +
		"• гайд — показать это сообщение.\n" +
		"• ебать гусей [контекст] — мудрая история про гусей и планку.\n" +
		"• кто сегодня [вопрос] — определить победителя дня по переписке в чате.\n" +
		"  Например: кто сегодня больше всех похож на Цоя?\n" +
		"• объясни [как] — объяснить приложенное сообщение в нужном стиле.\n" +
		"  Ответь на сообщение, затем напиши «объясни по-пацански».\n" +
		"  Если стиль не указан — выберу сам.",

	StorySuffix: "\n\nВы ебете гусей.",
	StoryFailed: "Гуси молчат. Что-то пошло не так на их стороне.",
	StoryPlaceholders: []string{
		"Ну хорошо хорошо, сейчас подумаем, что можно сделать…",
		"Гуси уже в курсе. Собираем мудрость…",
		"Один момент, консультируюсь со стаей…",
		"Ладно, дай собраться с мыслями. Гуси думают.",
		"Принято. Открываю книгу гусиной мудрости…",
		"Хм, интересный запрос. Гуси совещаются…",
		"Сейчас, сейчас. Главный гусь берёт слово…",
		"Ок, запрос принят. Жди гусиного откровения.",
		"Стая собирается. Это займёт секунду…",
		"Молчу, думаю, пишу. Гуси не торопятся.",
	},

	JudgeNoQuestion: "Укажи вопрос. Например: кто сегодня больше всех похож на Цоя?",
	JudgeLoadFailed: "Не удалось загрузить переписку. Попробуй позже.",
	JudgeFailed:     "Что-то пошло не так при анализе переписки. Попробуй позже.",
	JudgePlaceholders: []string{
		"Изучаю переписку… это займёт секунду.",
		"Листаю чат, ищу достойного кандидата…",
		"Анализирую улики. Кто-то сегодня явно отличился.",
		"Один момент, провожу расследование…",
		"Сейчас разберёмся, кто тут герой дня.",
	},

	ExplainNoSource: "Ответь на сообщение или перешли его, а потом напиши «объясни [как]».",
	ExplainFailed:   "Что-то пошло не так. Попробуй позже.",
	ExplainPlaceholders: []string{
		"Минуту, перевариваю текст…",
		"Уже читаю. Сейчас объясню.",
		"Хм, интересно. Перекладываю на нужный язык…",
		"Осмысляю. Жди.",
		"Секунду, ищу подходящие слова.",
	},
}
