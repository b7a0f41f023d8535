package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// OllamaCompleter serves completions from a local Ollama daemon. Local models
// take no credential.
type OllamaCompleter struct {
	client *ollama.Client
	logger *slog.Logger
}

// NewOllamaCompleter creates a completer for the daemon at baseURL.
func NewOllamaCompleter(baseURL string, httpClient *http.Client) (*OllamaCompleter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaCompleter{
		client: ollama.NewClient(base, httpClient),
		logger: slog.Default().With("component", "ollama_client"),
	}, nil
}

func (o *OllamaCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	stream := false
	chatReq := &ollama.ChatRequest{
		Model: req.Model,
		Messages: []ollama.Message{
			{Role: "user", Content: req.Prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
		},
	}

	var content strings.Builder
	err := o.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		o.logger.Error("ollama chat failed", "model", req.Model, "error", err)

		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			return "", statusError(statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return "", wperrors.Wrapf(wperrors.KindProvider, "complete", err, "ollama chat failed: %v", err)
	}

	text := content.String()
	if strings.TrimSpace(text) == "" {
		return "", wperrors.New(wperrors.KindEmptyResponse, "complete", "no content in response")
	}

	o.logger.Info("Ollama request completed",
		"model", req.Model,
		"response_length", len(text))

	return text, nil
}
