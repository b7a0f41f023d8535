package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/vampirenirmal/wpassist/internal/config"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// Invoker submits rendered prompts for a model tier. Temperature is always
// pinned to zero.
type Invoker struct {
	completer          Completer
	models             config.ModelsConfig
	requiresCredential bool
	logger             *slog.Logger
}

// NewInvoker wraps completer with the tier mapping of cfg.
func NewInvoker(completer Completer, cfg config.AIConfig) *Invoker {
	return &Invoker{
		completer:          completer,
		models:             cfg.Models,
		requiresCredential: cfg.RequiresCredential(),
		logger:             slog.Default().With("component", "invoker"),
	}
}

// WithLogger sets a custom logger for the invoker
func (i *Invoker) WithLogger(logger *slog.Logger) *Invoker {
	i.logger = logger.With("component", "invoker")
	return i
}

// Complete performs one exchange with the completion service.
func (i *Invoker) Complete(ctx context.Context, prompt string, tier config.ModelTier, credential Secret) (string, error) {
	model, err := i.models.Resolve(tier)
	if err != nil {
		return "", wperrors.Wrap(wperrors.KindInvalidRequest, "complete", err)
	}

	if i.requiresCredential && credential.Empty() {
		return "", wperrors.New(wperrors.KindAuthentication, "complete", "no API key supplied")
	}

	startTime := time.Now()
	i.logger.Debug("submitting prompt",
		"model", model,
		"tier", tier,
		"prompt_length", len(prompt))

	response, err := i.completer.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		Model:       model,
		Credential:  credential,
		Temperature: 0,
	})
	duration := time.Since(startTime)

	if err != nil {
		i.logger.Warn("completion failed",
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"kind", wperrors.KindOf(err))
		return "", err
	}

	i.logger.Info("completion received",
		"model", model,
		"duration_ms", duration.Milliseconds(),
		"response_length", len(response))

	return response, nil
}
