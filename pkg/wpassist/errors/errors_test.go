package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"typed", New(KindAuthentication, "complete", "status 401"), KindAuthentication},
		{"wrapped typed", fmt.Errorf("generation: %w", New(KindEmptyResponse, "complete", "no choices")), KindEmptyResponse},
		{"sentinel", fmt.Errorf("render: %w", ErrMissingVariable), KindMissingVariable},
		{"unknown", errors.New("boom"), KindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := Wrap(KindProvider, "complete", errors.New("connection refused"))

	if !errors.Is(err, ErrProvider) {
		t.Error("expected errors.Is to match ErrProvider")
	}
	if errors.Is(err, ErrAuthentication) {
		t.Error("provider error must not match ErrAuthentication")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrapf(KindProvider, "complete", errors.New("eof"), "API error (status %d)", 500)
	if got, want := err.Error(), "complete: ProviderError: API error (status 500)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := Wrap(KindProvider, "", errors.New("eof"))
	if got, want := bare.Error(), "ProviderError: eof"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDescribe(t *testing.T) {
	if Describe(nil) != nil {
		t.Fatal("Describe(nil) should be nil")
	}

	f := Describe(New(KindAuthentication, "complete", "invalid api key"))
	if f.Kind != KindAuthentication {
		t.Errorf("Kind = %q, want %q", f.Kind, KindAuthentication)
	}
	if f.Message == "" {
		t.Error("expected a message")
	}
}
