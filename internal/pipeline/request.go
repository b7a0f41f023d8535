package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vampirenirmal/wpassist/internal/agent"
	"github.com/vampirenirmal/wpassist/internal/config"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// Request is one user-triggered run. It is built fresh per submission.
type Request struct {
	Task          string           `validate:"required,notblank"`
	Model         config.ModelTier `validate:"required,oneof=fast advanced"`
	Credential    agent.Secret
	ShowReasoning bool
	CrossCheck    bool
}

// Verdict is the cross-check answer. Passed is true when the reply opens with
// the success phrase; Text is always the full reply.
type Verdict struct {
	Text   string `json:"text"`
	Passed bool   `json:"passed"`
}

// ParseVerdict reads the SUCCESS/ERROR framing of a cross-check reply.
func ParseVerdict(text string) Verdict {
	head := strings.TrimLeft(strings.TrimSpace(text), "\"'*`# ")
	return Verdict{
		Text:   text,
		Passed: strings.HasPrefix(strings.ToUpper(head), "SUCCESS"),
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID     string            `json:"run_id"`
	State     State             `json:"state"`
	Fragments []string          `json:"fragments"`
	Reasoning *string           `json:"reasoning_text,omitempty"`
	Verdict   *Verdict          `json:"verdict,omitempty"`
	Failure   *wperrors.Failure `json:"failure,omitempty"`

	// Transitions records every state entered, starting with Idle.
	Transitions []State `json:"-"`
}

// NoCode reports a successful run whose response held no usable code.
func (r *Result) NoCode() bool {
	return r.State != Failed && len(r.Fragments) == 0
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func (o *Orchestrator) validateRequest(req Request) error {
	if err := o.validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			f := fields[0]
			return wperrors.New(wperrors.KindInvalidRequest, "validate",
				fmt.Sprintf("%s failed %q check", f.Field(), f.Tag()))
		}
		return wperrors.Wrap(wperrors.KindInvalidRequest, "validate", err)
	}
	return nil
}
