package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-connectorform/pkg/form"
)

// NewSubmitCmd converts a file of form values into the payload a connector
// backend expects.
func NewSubmitCmd(ctx context.Context, deps Deps, opts *Options) *cobra.Command {
	var valuesPath string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Build the submission payload from form values",
		Long:  "Build the submission payload from a JSON or YAML file of form values keyed by property key. Checked toggles are true, lists, or the key itself.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := readFormValues(valuesPath)
			if err != nil {
				return err
			}
			req, err := opts.request()
			if err != nil {
				return err
			}
			if opts.Strict {
				req.FormOptions = append(req.FormOptions, form.WithStrictCustomProperties())
			}
			orch, err := opts.orchestrator(deps)
			if err != nil {
				return err
			}

			payload, err := orch.Submit(cmd.Context(), req, values)
			if err != nil {
				return oops.In("submit").
					Hint("custom properties must be comma separated key=value pairs").
					Wrapf(err, "submit form")
			}

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return oops.In("submit").Wrapf(err, "encode payload")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&valuesPath, "form", "f", "", "JSON or YAML file with the submitted form values")
	flags.BoolVar(&opts.Strict, "strict", false, "reject malformed custom properties")
	if err := cmd.MarkFlagRequired("form"); err != nil {
		cmd.PrintErrf("failed to mark flag 'form' as required: %v\n", err)
	}

	cmd.SetContext(ctx)
	return cmd
}

func readFormValues(path string) (form.FormValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("submit").Hint("check the --form path").Wrapf(err, "read form values")
	}

	var values form.FormValues
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}

	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, oops.In("submit").
			Hint("form values must be a JSON or YAML mapping").
			Wrapf(err, "parse form values")
	}
	encoded, err := json.Marshal(generic)
	if err != nil {
		return nil, oops.In("submit").Wrapf(err, "re-encode form values")
	}
	if err := json.Unmarshal(encoded, &values); err != nil {
		return nil, oops.In("submit").Wrapf(err, "decode form values")
	}
	return values, nil
}
