package config

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
)

// ModelTier selects between the cheaper and the stronger model of a provider.
type ModelTier string

const (
	TierFast     ModelTier = "fast"
	TierAdvanced ModelTier = "advanced"
)

// ParseModelTier accepts the tier names, their "-tier" spellings and the two
// OpenAI model names the tiers were first named after.
func ParseModelTier(s string) (ModelTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "fast-tier", "gpt-3.5-turbo":
		return TierFast, nil
	case "advanced", "advanced-tier", "gpt-4":
		return TierAdvanced, nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want fast or advanced)", s)
	}
}

// Resolve returns the provider model identifier for tier.
func (m ModelsConfig) Resolve(tier ModelTier) (string, error) {
	switch tier {
	case TierFast:
		return m.Fast, nil
	case TierAdvanced:
		return m.Advanced, nil
	default:
		return "", fmt.Errorf("unknown model tier %q", tier)
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		AI: ProviderDefaults(ProviderOpenAI),
		Extract: ExtractConfig{
			Language:  "php",
			MinLength: 20,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// ProviderDefaults returns endpoint and model defaults for provider. Unknown
// providers keep their name so validation reports them.
func ProviderDefaults(provider string) AIConfig {
	switch provider {
	case ProviderOpenAI:
		return AIConfig{
			Provider: provider,
			BaseURL:  "https://api.openai.com/v1",
			Timeout:  300,
			Models:   ModelsConfig{Fast: "gpt-3.5-turbo", Advanced: "gpt-4"},
		}
	case ProviderAnthropic:
		return AIConfig{
			Provider: provider,
			BaseURL:  "https://api.anthropic.com/v1",
			Timeout:  300,
			Models:   ModelsConfig{Fast: "claude-3-5-haiku-20241022", Advanced: "claude-3-5-sonnet-20241022"},
		}
	case ProviderOllama:
		return AIConfig{
			Provider: provider,
			BaseURL:  "http://127.0.0.1:11434",
			Timeout:  900,
			Models:   ModelsConfig{Fast: "qwen2.5-coder:7b", Advanced: "qwen2.5-coder:32b"},
		}
	case ProviderGemini:
		return AIConfig{
			Provider: provider,
			Timeout:  300,
			Models:   ModelsConfig{Fast: "gemini-2.0-flash", Advanced: "gemini-2.5-pro"},
		}
	default:
		return AIConfig{Provider: provider}
	}
}
