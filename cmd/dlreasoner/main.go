// Command dlreasoner is the CLI front end for the reasoner package
// (SPEC_FULL.md §6 "CLI contract"), built with github.com/spf13/cobra.
// It is an external collaborator in spec.md's sense: only its semantics
// touch the core, via fixture loaders and the reasoner facade.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dlreasoner",
		Short: "An OWL 2 DL tableaux reasoner",
		Long: "dlreasoner loads an OBO or OWL ontology file and answers " +
			"consistency, satisfiability, subsumption, and classification " +
			"queries against it.",
	}

	root.PersistentFlags().String("config", "", "path to a YAML reasoner config file")
	root.PersistentFlags().String("format", "auto", "input format: auto, obo, owl")
	root.PersistentFlags().Bool("debug-trace", false, "enable verbose tableau rule tracing")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newConsistentCmd())
	root.AddCommand(newSatisfiableCmd())
	root.AddCommand(newSubclassCmd())
	return root
}
