package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the sample tasks and the example task breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Sample tasks:")
			for i, task := range a.catalogue.Tasks {
				fmt.Fprintf(out, "  %d. %s\n", i+1, task)
			}
			fmt.Fprintln(out, `  or write your own: wpassist generate "<task>"`)

			b := a.catalogue.Breakdown
			fmt.Fprintf(out, "\nExample breakdown: %s\n", b.Goal)
			for i, step := range b.Steps {
				fmt.Fprintf(out, "  %d. %s\n", i+1, step)
			}
			fmt.Fprintln(out, "Run it with: wpassist batch --breakdown")

			return nil
		},
	}
}
