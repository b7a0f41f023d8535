package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vampirenirmal/wpassist/internal/agent"
	"github.com/vampirenirmal/wpassist/internal/config"
	"github.com/vampirenirmal/wpassist/internal/extract"
	"github.com/vampirenirmal/wpassist/internal/prompt"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

// Invoker submits a rendered prompt to the completion service.
type Invoker interface {
	Complete(ctx context.Context, prompt string, tier config.ModelTier, credential agent.Secret) (string, error)
}

// Orchestrator sequences generation, extraction and the optional cross-check.
// It holds no per-run state, so one value may serve concurrent runs.
type Orchestrator struct {
	builder   *prompt.Builder
	invoker   Invoker
	extractor *extract.Extractor
	validate  *validator.Validate
	logger    *slog.Logger
}

type Option func(*Orchestrator)

func WithExtractor(e *extract.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger.With("component", "pipeline")
	}
}

func New(builder *prompt.Builder, invoker Invoker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		builder:   builder,
		invoker:   invoker,
		extractor: extract.New(extract.DefaultLanguage),
		validate:  newValidator(),
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// run tracks the state of a single pipeline execution.
type run struct {
	result *Result
	logger *slog.Logger
	start  time.Time
}

func (r *run) transition(to State) {
	from := r.result.State
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", from, to))
	}
	r.result.State = to
	r.result.Transitions = append(r.result.Transitions, to)
	r.logger.Debug("state transition",
		"from", from,
		"to", to,
		"elapsed_ms", time.Since(r.start).Milliseconds())
}

func (r *run) fail(err error) (*Result, error) {
	r.transition(Failed)
	r.result.Failure = wperrors.Describe(err)
	r.logger.Warn("run failed",
		"kind", r.result.Failure.Kind,
		"duration_ms", time.Since(r.start).Milliseconds())
	return r.result, err
}

// Run executes one request. On failure the returned result is in the Failed
// state with a failure descriptor, and the error is the one the failing stage
// produced, unmodified.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.New().String()
	r := &run{
		result: &Result{
			RunID:       runID,
			State:       Idle,
			Fragments:   []string{},
			Transitions: []State{Idle},
		},
		logger: o.logger.With("run_id", runID),
		start:  time.Now(),
	}

	r.logger.Info("run started",
		"model", req.Model,
		"task_length", len(req.Task),
		"show_reasoning", req.ShowReasoning,
		"cross_check", req.CrossCheck)

	if err := o.validateRequest(req); err != nil {
		return r.fail(err)
	}

	r.transition(Generating)
	codePrompt, err := o.builder.GenerationPrompt(req.Task)
	if err != nil {
		return r.fail(err)
	}
	response, err := o.invoker.Complete(ctx, codePrompt, req.Model, req.Credential)
	if err != nil {
		return r.fail(err)
	}

	r.transition(Extracted)
	fragments := o.extractor.Extract(response)
	r.result.Fragments = fragments
	if req.ShowReasoning {
		r.result.Reasoning = &response
	}
	r.logger.Info("code extracted",
		"fragments", len(fragments),
		"response_length", len(response))

	if !req.CrossCheck || len(fragments) == 0 {
		if req.CrossCheck {
			r.logger.Info("cross-check skipped, no code extracted")
		}
		r.transition(Done)
		r.logger.Info("run finished", "state", Done, "duration_ms", time.Since(r.start).Milliseconds())
		return r.result, nil
	}

	r.transition(CrossChecking)
	checkPrompt, err := o.builder.ValidationPrompt(strings.Join(fragments, " "), req.Task)
	if err != nil {
		return r.fail(err)
	}
	verdictText, err := o.invoker.Complete(ctx, checkPrompt, req.Model, req.Credential)
	if err != nil {
		return r.fail(err)
	}

	verdict := ParseVerdict(verdictText)
	r.result.Verdict = &verdict
	r.transition(Checked)
	r.logger.Info("run finished",
		"state", Checked,
		"verdict_passed", verdict.Passed,
		"duration_ms", time.Since(r.start).Milliseconds())

	return r.result, nil
}
