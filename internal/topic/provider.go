package topic

import (
	"fmt"
	"log/slog"

	"github.com/veonlok/Your-Search-Wrapped/internal/anthropic"
)

// ProviderConfig selects and configures a classifier backend.
type ProviderConfig struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// NewClassifier returns a lazily built classifier for the configured provider.
// Unknown providers and missing keys surface on first use, where the
// detector degrades to DefaultLabel.
func NewClassifier(cfg ProviderConfig, logger *slog.Logger) Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return Lazy(func() (Classifier, error) {
		switch cfg.Provider {
		case "", "keyword":
			logger.Info("topic classifier ready", "provider", "keyword")
			return KeywordClassifier{}, nil
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai topic provider")
			}
			c, err := NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			if err != nil {
				return nil, err
			}
			logger.Info("topic classifier ready", "provider", "openai", "model", cfg.OpenAIModel)
			return c, nil
		case "anthropic":
			if cfg.AnthropicAPIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic topic provider")
			}
			llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			logger.Info("topic classifier ready", "provider", "anthropic", "model", llm.Model())
			return NewAnthropicClassifier(llm), nil
		default:
			return nil, fmt.Errorf("unknown topic provider %q", cfg.Provider)
		}
	})
}
