package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		sample     int
		model      string
		reasoning  bool
		crossCheck bool
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "generate [task]",
		Short: "Generate WordPress code for a task",
		Long: `Generate asks the model to solve a WordPress development task and prints
the PHP code blocks found in the answer.

Pick one of the sample tasks with --sample N (see "wpassist tasks") or pass
your own task as arguments. --cross-check sends the code back to the model
for a QA review against the task.`,
		Example: `  wpassist generate --sample 2
  wpassist generate --model advanced --cross-check "Add a custom text field to WooCommerce products in backend"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := strings.TrimSpace(strings.Join(args, " "))
			if sample > 0 {
				if task != "" {
					return errors.New("use either --sample or a task, not both")
				}
				var err error
				if task, err = a.catalogue.Task(sample); err != nil {
					return err
				}
			}
			if task == "" {
				return errors.New("no task given: pass a task or --sample N")
			}

			req, err := a.newRequest(task, model, reasoning, crossCheck)
			if err != nil {
				return err
			}

			r := newRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), plain, a.cfg.Extract.Language)
			if !plain {
				r.title("Task: " + task)
			}
			result, err := a.orch.Run(cmd.Context(), req)
			return r.result(result, err)
		},
	}

	cmd.Flags().IntVarP(&sample, "sample", "s", 0, "use sample task N")
	cmd.Flags().StringVarP(&model, "model", "m", "fast", "model tier: fast or advanced")
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "print the full answer of the model")
	cmd.Flags().BoolVar(&crossCheck, "cross-check", false, "review the generated code with a second QA request")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw text without formatting")

	return cmd
}
