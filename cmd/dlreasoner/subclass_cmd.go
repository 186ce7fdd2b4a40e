package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newSubclassCmd mirrors spec.md §6's is_subclass_of(A, B): exit 0 if A
// is entailed a subclass of B, 1 if not, 2 on error.
func newSubclassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subclass <file> <sub> <super>",
		Short: "Check whether one named class is subsumed by another",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			path, subName, supName := args[0], args[1], args[2]

			o, r, err := loadOntologyAndReasoner(cmd, path)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			defer r.Close()

			sub := classExprByName(o, subName)
			sup := classExprByName(o, supName)
			holds, err := r.IsSubClassOf(context.Background(), sub, sup)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				os.Exit(2)
			}
			if !holds {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not a subclass of %s\n", subName, supName)
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a subclass of %s\n", subName, supName)
		},
	}
}
