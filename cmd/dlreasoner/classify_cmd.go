package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nodeadmin/dlreasoner/classify"
)

func newClassifyCmd() *cobra.Command {
	var parallel bool
	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Print the full named-class taxonomy as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildReasoner(cmd, args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			var hierarchy *classify.ClassifiedHierarchy
			ctx := context.Background()
			if parallel {
				hierarchy, err = r.ClassifyParallel(ctx)
			} else {
				hierarchy, err = r.Classify(ctx)
			}
			if err != nil {
				return err
			}
			return classify.WriteClassifiedJSON(cmd.OutOrStdout(), hierarchy)
		},
	}
	cmd.Flags().BoolVar(&parallel, "parallel", false, "fan subsumption checks out across Config.MaxWorkers goroutines")
	return cmd
}
