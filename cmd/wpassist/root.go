package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/wpassist/internal/agent"
	"github.com/vampirenirmal/wpassist/internal/config"
	"github.com/vampirenirmal/wpassist/internal/extract"
	"github.com/vampirenirmal/wpassist/internal/logging"
	"github.com/vampirenirmal/wpassist/internal/pipeline"
	"github.com/vampirenirmal/wpassist/internal/prompt"
	"github.com/vampirenirmal/wpassist/internal/samples"
)

const version = "0.3.0"

// errReported marks failures already printed to the user.
var errReported = errors.New("failure reported")

// app carries the wiring shared by all subcommands. It is assembled once per
// invocation in the root command's pre-run hook.
type app struct {
	configPath string
	logLevel   string
	apiKey     string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg       *config.Config
	logger    *slog.Logger
	closer    io.Closer
	orch      *pipeline.Orchestrator
	catalogue *samples.Catalogue

	// completer replaces the configured provider when set.
	completer agent.Completer
	// promptKey asks for the API key when no flag or variable holds one.
	promptKey func(label string) (string, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, promptKey: terminalPrompt(errOut)}
}

// execute runs the CLI with args. The log file is closed on every path,
// including failed commands, which skip cobra's post-run hooks.
func (a *app) execute(ctx context.Context, args []string) error {
	defer a.close()

	cmd := newRootCmdWith(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (a *app) close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		fmt.Fprintf(a.errOut, "closing log file: %v\n", err)
	}
	a.closer = nil
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wpassist",
		Short: "WordPress code assistant",
		Long: `wpassist asks a language model to write WordPress PHP code for a task,
extracts the PHP blocks from the answer and can run a second QA pass that
cross-checks the code against the task.

Large goals work best split into small tasks: see "wpassist tasks" for an
example breakdown and "wpassist batch" to run one.

Your API key is passed through to the provider and never stored.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wpassist/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.apiKey, "api-key", "", "provider API key (default from the provider's environment variable)")

	root.AddCommand(
		newGenerateCmd(a),
		newTasksCmd(a),
		newBatchCmd(a),
		newMCPCmd(a),
	)

	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger, a.closer = logging.Setup(cfg.Logging, a.errOut)

	builder, err := prompt.NewBuilder(prompt.WithLanguage(cfg.Extract.Language))
	if err != nil {
		return err
	}
	overrides := map[prompt.TemplateID]string{
		prompt.Generation: cfg.Prompts.Generation,
		prompt.Validation: cfg.Prompts.Validation,
	}
	if err := builder.LoadOverrides(prompt.NewCache(), overrides); err != nil {
		return err
	}

	completer := a.completer
	if completer == nil {
		completer, err = agent.NewCompleter(cfg.AI, a.logger)
		if err != nil {
			return err
		}
	}

	invoker := agent.NewInvoker(completer, cfg.AI).WithLogger(a.logger)
	a.orch = pipeline.New(builder, invoker,
		pipeline.WithExtractor(extract.NewWithMinLength(cfg.Extract.Language, cfg.Extract.MinLength)),
		pipeline.WithLogger(a.logger))

	a.catalogue, err = samples.Load()
	if err != nil {
		return err
	}

	a.logger.Debug("wpassist configured",
		"provider", cfg.AI.Provider,
		"fast_model", cfg.AI.Models.Fast,
		"advanced_model", cfg.AI.Models.Advanced)

	return nil
}

// newRequest builds a run request, resolving the credential on demand.
func (a *app) newRequest(task, model string, reasoning, crossCheck bool) (pipeline.Request, error) {
	tier, err := config.ParseModelTier(model)
	if err != nil {
		return pipeline.Request{}, err
	}

	credential, err := a.credential()
	if err != nil {
		return pipeline.Request{}, err
	}

	return pipeline.Request{
		Task:          task,
		Model:         tier,
		Credential:    credential,
		ShowReasoning: reasoning,
		CrossCheck:    crossCheck,
	}, nil
}
