package commands

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	connectorform "github.com/goliatone/go-connectorform"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-connectorform/pkg/openapi"
)

type violation struct {
	file     string
	location string
	message  string
}

// NewLintCmd checks metadata and OpenAPI documents for property definitions
// the form cannot honour.
func NewLintCmd(ctx context.Context, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint metadata and OpenAPI documents",
		Long:  "Lint metadata and OpenAPI documents for unknown property types, dangling sub-properties, duplicate keys and invalid patterns. Defaults to --metadata.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 && opts.Metadata != "" {
				paths = []string{opts.Metadata}
			}
			if len(paths) == 0 {
				return oops.In("lint").Hint("pass document paths or --metadata").Errorf("nothing to lint")
			}

			adapter := connectorform.NewOpenAPIAdapter(pkgopenapi.ParserOptions{})
			parser := connectorform.NewOpenAPIParser(pkgopenapi.ParserOptions{})

			var violations []violation
			for _, path := range paths {
				raw, err := os.ReadFile(path)
				if err != nil {
					return oops.In("lint").Wrapf(err, "read %s", path)
				}
				var linted []violation
				if adapter.Detect(raw) {
					linted, err = lintOpenAPI(cmd.Context(), parser, path, raw, opts.Schema)
				} else {
					linted, err = lintMetadata(path, raw)
				}
				if err != nil {
					return err
				}
				violations = append(violations, linted...)
			}

			if len(violations) == 0 {
				cmd.Printf("%d document(s) ok\n", len(paths))
				return nil
			}
			sort.Slice(violations, func(i, j int) bool {
				if violations[i].file == violations[j].file {
					if violations[i].location == violations[j].location {
						return violations[i].message < violations[j].message
					}
					return violations[i].location < violations[j].location
				}
				return violations[i].file < violations[j].file
			})
			for _, v := range violations {
				cmd.PrintErrf("%s: %s -> %s\n", v.file, v.location, v.message)
			}
			return oops.In("lint").Errorf("found %d violation(s)", len(violations))
		},
	}
	cmd.SetContext(ctx)
	return cmd
}

func lintMetadata(file string, raw []byte) ([]violation, error) {
	meta, err := metadata.DecodeMetadata(raw)
	if err != nil {
		return nil, oops.In("lint").Wrapf(err, "decode %s", file)
	}

	var result []violation
	seen := make(map[string]string)
	report := func(path []string, format string, args ...any) {
		result = append(result, violation{file: file, location: formatLocation(path), message: fmt.Sprintf(format, args...)})
	}

	var walk func(list []metadata.PropertyMetadata, path []string)
	walk = func(list []metadata.PropertyMetadata, path []string) {
		for _, node := range list {
			location := appendPath(path, node.Key)
			if strings.TrimSpace(node.Key) == "" {
				report(location, "property key is empty")
			} else if first, ok := seen[node.Key]; ok {
				report(location, "duplicate key, first declared at %s", first)
			} else {
				seen[node.Key] = formatLocation(location)
			}

			tag := node.PropertyType()
			if node.Type != "" && tag == metadata.PropertyTypeUnknown {
				report(location, "unknown property type %q", node.Type)
			}
			if node.HasSubProperties() && !isToggle(tag) {
				report(location, "sub-properties need a BOOLEAN, CHECKBOX or RADIO parent, found %q", node.Type)
			}
			if node.Regex != "" {
				if _, err := regexp.Compile("^(?:" + node.Regex + ")$"); err != nil {
					report(location, "invalid regex: %v", err)
				}
			}
			walk(node.SubProperties, location)
		}
	}
	walk(meta.Properties, []string{"properties"})
	return result, nil
}

func lintOpenAPI(ctx context.Context, parser pkgopenapi.Parser, file string, raw []byte, only string) ([]violation, error) {
	names := []string{only}
	if only == "" {
		var err error
		if names, err = parser.ComponentNames(ctx, raw); err != nil {
			return nil, oops.In("lint").Wrapf(err, "list schemas in %s", file)
		}
	}

	var result []violation
	for _, name := range names {
		schema, err := parser.ComponentSchema(ctx, raw, name)
		if err != nil {
			return nil, oops.In("lint").Wrapf(err, "parse schema %s in %s", name, file)
		}
		keys := make([]string, 0, len(schema.Properties))
		for key := range schema.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			location := []string{"components", "schemas", name, "properties", key}
			for _, message := range lintExtensions(schema.Properties[key].Extensions, schema.Properties) {
				result = append(result, violation{file: file, location: formatLocation(location), message: message})
			}
		}
	}
	return result, nil
}

func lintExtensions(ext map[string]any, siblings map[string]pkgopenapi.Schema) []string {
	var result []string
	if value, ok := ext[pkgopenapi.ExtensionDisplayName]; ok {
		if _, ok := value.(string); !ok {
			result = append(result, fmt.Sprintf("%s must be a string (got %T)", pkgopenapi.ExtensionDisplayName, value))
		}
	}
	if value, ok := ext[pkgopenapi.ExtensionDisplayOrder]; ok {
		switch value.(type) {
		case float64, int, int64:
		default:
			result = append(result, fmt.Sprintf("%s must be a number (got %T)", pkgopenapi.ExtensionDisplayOrder, value))
		}
	}
	if value, ok := ext[pkgopenapi.ExtensionConfidential]; ok {
		if _, ok := value.(bool); !ok {
			result = append(result, fmt.Sprintf("%s must be a boolean (got %T)", pkgopenapi.ExtensionConfidential, value))
		}
	}
	if value, ok := ext[pkgopenapi.ExtensionPropertyType]; ok {
		tag, _ := value.(string)
		if metadata.ParsePropertyType(tag) == metadata.PropertyTypeUnknown {
			result = append(result, fmt.Sprintf("unknown %s %v", pkgopenapi.ExtensionPropertyType, value))
		}
	}
	if value, ok := ext[pkgopenapi.ExtensionSubProperties]; ok {
		for _, child := range subPropertyNames(value) {
			if _, ok := siblings[child]; !ok {
				result = append(result, fmt.Sprintf("%s names unknown property %q", pkgopenapi.ExtensionSubProperties, child))
			}
		}
	}
	return result
}

func subPropertyNames(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}

func isToggle(tag metadata.PropertyType) bool {
	switch tag {
	case metadata.PropertyTypeBoolean, metadata.PropertyTypeCheckbox, metadata.PropertyTypeRadio:
		return true
	}
	return false
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
