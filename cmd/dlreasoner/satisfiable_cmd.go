package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newSatisfiableCmd mirrors spec.md §6's is_satisfiable(C): exit 0 if
// the named class is satisfiable, 1 if not, 2 on error.
func newSatisfiableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "satisfiable <file> <class>",
		Short: "Check whether a named class can have instances",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			path, className := args[0], args[1]

			o, r, err := loadOntologyAndReasoner(cmd, path)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			defer r.Close()

			c := classExprByName(o, className)
			sat, err := r.IsSatisfiable(context.Background(), c)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			if !sat {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is unsatisfiable\n", className)
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is satisfiable\n", className)
		},
	}
}
