package agent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// GeminiCompleter serves completions from the Gemini API. A client is built
// per call because the credential belongs to the run, not the process.
type GeminiCompleter struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiCompleter creates a completer; an empty baseURL uses the SDK default.
func NewGeminiCompleter(baseURL string, httpClient *http.Client) *GeminiCompleter {
	return &GeminiCompleter{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     slog.Default().With("component", "gemini_client"),
	}
}

func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Credential.Empty() {
		return "", wperrors.New(wperrors.KindAuthentication, "complete", "no API key supplied")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      req.Credential.Reveal(),
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", wperrors.New(wperrors.KindProvider, "complete",
			"creating Gemini client: "+redact(err.Error(), req.Credential))
	}

	temperature := float32(req.Temperature)
	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		msg := redact(err.Error(), req.Credential)
		g.logger.Error("Gemini request failed", "model", req.Model, "error", msg)

		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError(apiErr.Code, redact(apiErr.Message, req.Credential))
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) {
			return "", statusError(apiErrPtr.Code, redact(apiErrPtr.Message, req.Credential))
		}
		return "", wperrors.New(wperrors.KindProvider, "complete", msg)
	}

	var text strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil {
				text.WriteString(part.Text)
			}
		}
	}
	content := text.String()

	if strings.TrimSpace(content) == "" {
		return "", wperrors.New(wperrors.KindEmptyResponse, "complete", "no content in response")
	}

	g.logger.Info("Gemini request completed",
		"model", req.Model,
		"response_length", len(content))

	return content, nil
}
