package agent

import (
	"context"
	"log/slog"
)

// CompletionRequest is one prompt submitted to the completion service.
type CompletionRequest struct {
	Prompt      string
	Model       string
	Credential  Secret
	Temperature float64
}

// Completer performs a single request/response exchange with a completion
// service. Implementations never retry.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Secret holds a credential. It prints and logs as a redaction marker so it
// cannot leak through fmt or slog by accident.
type Secret string

const redacted = "[REDACTED]"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return s.String()
}

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Reveal returns the raw credential for the outbound request.
func (s Secret) Reveal() string {
	return string(s)
}

// Empty reports whether no credential was supplied.
func (s Secret) Empty() bool {
	return len(s) == 0
}
