package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func NewVersionCmd(ctx context.Context, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the connectorform version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version := deps.Version
			if version == "" {
				version = "dev"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "connectorform %s (%s)\n", version, runtime.Version())
			return err
		},
	}
	cmd.SetContext(ctx)
	return cmd
}
