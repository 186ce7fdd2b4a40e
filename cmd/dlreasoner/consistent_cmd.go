package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newConsistentCmd mirrors spec.md §6's CLI contract: exit 0 if
// consistent, 1 if inconsistent, 2 on error. Cobra's own Execute() maps a
// returned error to exit 1, so the inconsistent/error split is handled
// explicitly here instead of through RunE's return value.
func newConsistentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistent <file>",
		Short: "Check whether the ontology is globally consistent",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			r, err := buildReasoner(cmd, args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			defer r.Close()

			consistent, err := r.IsConsistent(context.Background())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			if !consistent {
				fmt.Fprintln(cmd.OutOrStdout(), "inconsistent")
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "consistent")
		},
	}
}
