package commands

import (
	"context"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla"
)

// NewRenderCmd renders the form. With the tui renderer the command prompts
// for every field and prints the submitted payload instead.
func NewRenderCmd(ctx context.Context, deps Deps, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a connector configuration form",
		Long:  "Render a connector configuration form as HTML (vanilla) or run it interactively in the terminal (tui).",
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

			out, err := orch.Generate(cmd.Context(), req)
			if err != nil {
				return oops.In("render").
					Hint("check the metadata and values documents").
					Wrapf(err, "render form")
			}

			if opts.Output != "" {
				if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
					return oops.In("render").Wrapf(err, "write %s", opts.Output)
				}
				slogctx.Debug(cmd.Context(), "form written", "path", opts.Output, "bytes", len(out))
				cmd.Printf("Form written to %s\n", opts.Output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Renderer, "renderer", "r", vanilla.Name, "renderer: vanilla or tui")
	flags.StringVarP(&opts.Output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&opts.Payload, "payload", "json", "tui payload format: json, form or pretty")
	flags.StringVar(&opts.Engine, "engine", enginePongo2, "html template engine: pongo2 or go-template")
	flags.StringVar(&opts.Theme, "theme", "", "theme name from the config file")
	flags.StringVar(&opts.Variant, "variant", "", "theme variant")

	cmd.SetContext(ctx)
	return cmd
}
