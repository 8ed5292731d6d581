package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewFieldsCmd prints the ordered field list the renderers would show.
func NewFieldsCmd(ctx context.Context, deps Deps, opts *Options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the form fields in render order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			orch, err := opts.orchestrator(deps)
			if err != nil {
				return err
			}
			f, err := orch.Form(cmd.Context(), req)
			if err != nil {
				return oops.In("fields").Wrapf(err, "build form")
			}
			defer f.Close()

			fields := f.Fields()
			if fields == nil {
				return oops.In("fields").
					Hint("pass --values; forms without initial values render nothing").
					Errorf("form is not mounted")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLABEL\tCONTROL\tFLAGS")
			for _, field := range fields {
				if !field.Revealed && !all {
					continue
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n",
					strings.Repeat("  ", field.Depth), field.Key, field.Label, field.Control, fieldFlags(field.Required, field.Listen, field.Revealed))
			}
			if f.ShowCustomProperties() {
				fmt.Fprintf(w, "customProperties\t%s\ttext\t\n", f.CustomProperties())
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include fields hidden behind unchecked parents")

	cmd.SetContext(ctx)
	return cmd
}

func fieldFlags(required, listen, revealed bool) string {
	var flags []string
	if required {
		flags = append(flags, "required")
	}
	if listen {
		flags = append(flags, "listen")
	}
	if !revealed {
		flags = append(flags, "hidden")
	}
	return strings.Join(flags, ",")
}
