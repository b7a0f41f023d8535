package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/wpassist/internal/pipeline"
	"github.com/vampirenirmal/wpassist/internal/samples"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		file        string
		breakdown   bool
		model       string
		reasoning   bool
		crossCheck  bool
		plain       bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run several tasks concurrently",
		Long: `Batch runs a list of independent tasks, each through its own pipeline run.
Tasks come from a YAML file with a "tasks" (or "steps") list, or from the
built-in BuddyPress breakdown. Results print in task order; a failed task
does not stop the others.`,
		Example: `  wpassist batch --breakdown --cross-check
  wpassist batch --file tasks.yaml --concurrency 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tasks []string
			switch {
			case file != "" && breakdown:
				return errors.New("use either --file or --breakdown, not both")
			case file != "":
				var err error
				if tasks, err = samples.ReadTaskFile(file); err != nil {
					return err
				}
			case breakdown:
				tasks = a.catalogue.Breakdown.Steps
			default:
				return errors.New("no tasks given: pass --file or --breakdown")
			}

			base, err := a.newRequest("", model, reasoning, crossCheck)
			if err != nil {
				return err
			}
			reqs := make([]pipeline.Request, len(tasks))
			for i, task := range tasks {
				reqs[i] = base
				reqs[i].Task = task
			}

			if concurrency <= 0 {
				concurrency = a.cfg.Batch.Concurrency
			}
			items := a.orch.RunBatch(cmd.Context(), reqs, concurrency)

			r := newRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), plain, a.cfg.Extract.Language)
			failed := 0
			for i, item := range items {
				r.title(fmt.Sprintf("[%d/%d] %s", i+1, len(items), item.Request.Task))
				if err := r.result(item.Result, item.Err); err != nil {
					failed++
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d tasks failed\n", failed, len(items))
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file listing the tasks")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "run the built-in BuddyPress breakdown")
	cmd.Flags().StringVarP(&model, "model", "m", "fast", "model tier: fast or advanced")
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "print the full answer of the model")
	cmd.Flags().BoolVar(&crossCheck, "cross-check", false, "review each task's code with a second QA request")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw text without formatting")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "tasks in flight (default from config)")

	return cmd
}
