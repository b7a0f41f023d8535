package errors

import (
	"errors"
	"fmt"
)

// Kind names a failure class surfaced to the presentation layer.
type Kind string

const (
	KindMissingVariable Kind = "MissingVariable"
	KindAuthentication  Kind = "AuthenticationError"
	KindProvider        Kind = "ProviderError"
	KindEmptyResponse   Kind = "EmptyResponse"
	KindInvalidRequest  Kind = "InvalidRequest"
)

// Common error values, one per kind
var (
	// ErrMissingVariable indicates a prompt template was rendered without a required value
	ErrMissingVariable = errors.New("missing template variable")

	// ErrAuthentication indicates the credential was rejected or not supplied
	ErrAuthentication = errors.New("authentication failed")

	// ErrProvider indicates a non-2xx status, transport failure or malformed payload
	ErrProvider = errors.New("completion provider error")

	// ErrEmptyResponse indicates the provider answered without any text
	ErrEmptyResponse = errors.New("empty completion response")

	// ErrInvalidRequest indicates the run request failed validation
	ErrInvalidRequest = errors.New("invalid run request")
)

var sentinels = map[Kind]error{
	KindMissingVariable: ErrMissingVariable,
	KindAuthentication:  ErrAuthentication,
	KindProvider:        ErrProvider,
	KindEmptyResponse:   ErrEmptyResponse,
	KindInvalidRequest:  ErrInvalidRequest,
}

// Error carries a failure kind, the operation that produced it and an optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against the sentinel of its kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New creates a kinded error without a cause
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates a kinded error around cause
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Wrapf creates a kinded error around cause with a formatted message
func Wrapf(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf classifies err. Errors that carry no kind are provider errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindProvider
}

// Failure is the descriptor handed to the presentation layer when a run fails.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Describe builds the failure descriptor for err, or nil when err is nil.
func Describe(err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindOf(err), Message: err.Error()}
}

// IsAuthentication checks if the credential was rejected
func IsAuthentication(err error) bool {
	return KindOf(err) == KindAuthentication
}

// IsMissingVariable checks if a template was rendered with an absent variable
func IsMissingVariable(err error) bool {
	return KindOf(err) == KindMissingVariable
}
