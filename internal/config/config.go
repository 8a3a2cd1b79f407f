package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     int
	LogLevel string
	// ClientURL is the browser origin allowed to call the API.
	ClientURL string
	// APIToken guards the run ledger endpoint.
	APIToken string

	TargetYear             int
	TZOffsetMinutes        int
	TopKeywords            int
	TopSearches            int
	TopicSampleSize        int
	TopicMaxChars          int
	IncludeUndatedKeywords bool
	MaxUploadMB            int
	MaxExportMB            int
	MaxConcurrentAnalyses  int
	LexiconFile            string

	TopicProvider   string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	DatabaseURL string
	NatsURL     string
	NatsToken   string

	SlackBotToken  string
	SlackChannel   string
	// SlackNotifyAll posts every run instead of failures only.
	SlackNotifyAll bool
}

func Load() Config {
	return Config{
		Port:      envInt("WRAPPED_PORT", 8000),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		ClientURL: strings.TrimRight(envStr("CLIENT_URL", envStr("VITE_CLIENT_URL", "")), "/"),
		APIToken:  envStr("WRAPPED_API_TOKEN", ""),

		TargetYear:             envInt("WRAPPED_TARGET_YEAR", 2025),
		TZOffsetMinutes:        envInt("TZ_OFFSET_MINUTES", 480),
		TopKeywords:            envInt("TOP_KEYWORDS", 8),
		TopSearches:            envInt("TOP_SEARCHES", 5),
		TopicSampleSize:        envInt("TOPIC_SAMPLE_SIZE", 100),
		TopicMaxChars:          envInt("TOPIC_MAX_CHARS", 500),
		IncludeUndatedKeywords: envBool("INCLUDE_UNDATED_KEYWORDS", false),
		MaxUploadMB:            envInt("MAX_UPLOAD_MB", 200),
		MaxExportMB:            envInt("MAX_EXPORT_MB", 512),
		MaxConcurrentAnalyses:  envInt("MAX_CONCURRENT_ANALYSES", 4),
		LexiconFile:            envStr("LEXICON_FILE", ""),

		TopicProvider:   envStr("TOPIC_PROVIDER", "keyword"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),

		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),

		SlackBotToken:  envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:   envStr("SLACK_CHANNEL", ""),
		SlackNotifyAll: envBool("SLACK_NOTIFY_ALL", false),
	}
}

// AllowedOrigins returns the CORS origins for the browser client.
func (c Config) AllowedOrigins() []string {
	if c.ClientURL != "" {
		return []string{c.ClientURL}
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
