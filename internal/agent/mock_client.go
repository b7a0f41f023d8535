package agent

import (
	"context"
	"sync"

	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// MockResponse is one scripted reply of a MockClient.
type MockResponse struct {
	Text string
	Err  error
}

// MockClient replays scripted responses in order and records every request.
// Running out of script yields an EmptyResponse error.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	respond   func(req CompletionRequest) (string, error)
	calls     []CompletionRequest
}

// NewMockClient creates a mock that answers with responses in order
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// NewMockClientFunc creates a mock that answers through fn
func NewMockClientFunc(fn func(req CompletionRequest) (string, error)) *MockClient {
	return &MockClient{respond: fn}
}

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	respond := m.respond
	var next *MockResponse
	if respond == nil && len(m.responses) > 0 {
		next = &m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", wperrors.Wrap(wperrors.KindProvider, "complete", err)
	}
	if respond != nil {
		return respond(req)
	}
	if next == nil {
		return "", wperrors.New(wperrors.KindEmptyResponse, "complete", "mock script exhausted")
	}
	return next.Text, next.Err
}

// Calls returns a copy of the recorded requests
func (m *MockClient) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many requests were made
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.calls)
}
