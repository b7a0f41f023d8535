package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vampirenirmal/wpassist/internal/config"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

const (
	maxTokens        = 4096
	maxErrorBodySize = 512
)

// Client talks to OpenAI-style chat completion and Anthropic messages
// endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiType    string // "openai" or "anthropic"
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout bounds each request. Expiry surfaces as a provider error.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		transport := c.httpClient.Transport
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}
}

func WithAPIConfig(apiType, baseURL string) Option {
	return func(c *Client) {
		c.apiType = apiType
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "ai_client")
	}
}

func NewClient(opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		baseURL: "https://api.openai.com/v1",
		httpClient: &http.Client{
			Timeout:   300 * time.Second,
			Transport: transport,
		},
		apiType: config.ProviderOpenAI,
		logger:  slog.Default().With("component", "ai_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("AI client initialized",
		"api_type", c.apiType,
		"base_url", c.baseURL,
		"timeout", c.httpClient.Timeout)

	return c
}

// Complete sends req as a single user message. There is no retry: every
// failure is returned to the caller as a kinded error.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Credential.Empty() {
		return "", wperrors.New(wperrors.KindAuthentication, "complete", "no API key supplied")
	}

	if c.apiType == config.ProviderAnthropic {
		return c.doAnthropicRequest(ctx, req)
	}
	return c.doOpenAIRequest(ctx, req)
}

func (c *Client) doOpenAIRequest(ctx context.Context, req CompletionRequest) (string, error) {
	requestBody := map[string]interface{}{
		"model": req.Model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
		"temperature": req.Temperature,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + req.Credential.Reveal(),
	}

	respBody, err := c.post(ctx, "/chat/completions", requestBody, headers, req.Credential)
	if err != nil {
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(respBody, &response); err != nil {
		c.logger.Error("failed to parse OpenAI response",
			"error", err,
			"body_size", len(respBody))
		return "", wperrors.Wrapf(wperrors.KindProvider, "complete", err, "parsing response")
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == nil ||
		strings.TrimSpace(*response.Choices[0].Message.Content) == "" {
		c.logger.Error("no content in OpenAI response",
			"choices", len(response.Choices))
		return "", wperrors.New(wperrors.KindEmptyResponse, "complete", "no content in response")
	}

	content := *response.Choices[0].Message.Content

	c.logger.Info("OpenAI request completed",
		"model", req.Model,
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens,
		"total_tokens", response.Usage.TotalTokens,
		"response_length", len(content))

	return content, nil
}

func (c *Client) doAnthropicRequest(ctx context.Context, req CompletionRequest) (string, error) {
	requestBody := map[string]interface{}{
		"model": req.Model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
	}

	headers := map[string]string{
		"x-api-key":         req.Credential.Reveal(),
		"anthropic-version": "2023-06-01",
	}

	respBody, err := c.post(ctx, "/messages", requestBody, headers, req.Credential)
	if err != nil {
		return "", err
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(respBody, &response); err != nil {
		c.logger.Error("failed to parse Anthropic response",
			"error", err,
			"body_size", len(respBody))
		return "", wperrors.Wrapf(wperrors.KindProvider, "complete", err, "parsing response")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	content := text.String()

	if strings.TrimSpace(content) == "" {
		c.logger.Error("no content in Anthropic response",
			"blocks", len(response.Content))
		return "", wperrors.New(wperrors.KindEmptyResponse, "complete", "no content in response")
	}

	c.logger.Info("Anthropic request completed",
		"model", req.Model,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
		"total_tokens", response.Usage.InputTokens+response.Usage.OutputTokens,
		"response_length", len(content))

	return content, nil
}

// post sends one JSON request and returns the body of a 2xx response. Empty
// and null bodies are reported as EmptyResponse.
func (c *Client) post(ctx context.Context, endpoint string, payload any, headers map[string]string, secret Secret) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wperrors.Wrapf(wperrors.KindProvider, "complete", err, "marshaling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wperrors.Wrapf(wperrors.KindProvider, "complete", err, "creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpStart := time.Now()
	c.logger.Debug("sending HTTP request",
		"api_type", c.apiType,
		"endpoint", endpoint,
		"body_size_bytes", len(body))

	resp, err := c.httpClient.Do(req)
	httpDuration := time.Since(httpStart)
	if err != nil {
		c.logger.Error("HTTP request failed",
			"endpoint", endpoint,
			"duration_ms", httpDuration.Milliseconds(),
			"error", redact(err.Error(), secret))
		return nil, wperrors.New(wperrors.KindProvider, "complete",
			"making request: "+redact(err.Error(), secret))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wperrors.Wrapf(wperrors.KindProvider, "complete", err, "reading response")
	}

	c.logger.Debug("HTTP response received",
		"endpoint", endpoint,
		"status_code", resp.StatusCode,
		"duration_ms", httpDuration.Milliseconds(),
		"body_size", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := redact(truncate(string(respBody), maxErrorBodySize), secret)
		c.logger.Error("API error",
			"endpoint", endpoint,
			"status_code", resp.StatusCode)
		return nil, statusError(resp.StatusCode, detail)
	}

	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, wperrors.New(wperrors.KindEmptyResponse, "complete", "empty response body")
	}

	return respBody, nil
}

// statusError maps an HTTP status to an error kind.
func statusError(status int, detail string) error {
	kind := wperrors.KindProvider
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = wperrors.KindAuthentication
	}
	return wperrors.New(kind, "complete", fmt.Sprintf("API error (status %d): %s", status, detail))
}

// redact removes the raw credential from s.
func redact(s string, secret Secret) string {
	if secret.Empty() {
		return s
	}
	return strings.ReplaceAll(s, secret.Reveal(), redacted)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
