package agent

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vampirenirmal/wpassist/internal/config"
)

// NewCompleter builds the completer for the configured provider.
func NewCompleter(cfg config.AIConfig, logger *slog.Logger) (Completer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderAnthropic:
		// A zero timeout leaves requests unbounded.
		return NewClient(
			WithAPIConfig(cfg.Provider, cfg.BaseURL),
			WithLogger(logger),
			WithTimeout(timeout),
		), nil

	case config.ProviderOllama:
		return NewOllamaCompleter(cfg.BaseURL, &http.Client{Timeout: timeout})

	case config.ProviderGemini:
		return NewGeminiCompleter(cfg.BaseURL, &http.Client{Timeout: timeout}), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
