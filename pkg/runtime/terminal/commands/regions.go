package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smustafa75/aws-calc/pkg/services/region"
)

func NewRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the AWS region codes the calculator can price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, "Available regions:"); err != nil {
				return err
			}
			for _, r := range region.Known() {
				if _, err := fmt.Fprintf(out, "  %-16s %s\n", r.Code, r.Location); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
