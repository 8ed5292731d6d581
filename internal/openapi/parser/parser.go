package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-connectorform/pkg/openapi"
)

// ErrSchemaNotFound is returned when the document has no component schema
// with the requested name.
var ErrSchemaNotFound = errors.New("openapi parser: component schema not found")

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// ComponentNames lists the component schemas in key order.
func (p *Parser) ComponentNames(ctx context.Context, raw []byte) ([]string, error) {
	spec, err := p.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ComponentSchema converts the named component schema. Properties pulled in
// through allOf are merged into the result.
func (p *Parser) ComponentSchema(ctx context.Context, raw []byte, name string) (pkgopenapi.Schema, error) {
	spec, err := p.load(ctx, raw)
	if err != nil {
		return pkgopenapi.Schema{}, err
	}
	name = strings.TrimSpace(name)
	if spec.Components == nil || spec.Components.Schemas[name] == nil {
		return pkgopenapi.Schema{}, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	ref := spec.Components.Schemas[name]
	if ref.Value == nil {
		return pkgopenapi.Schema{}, fmt.Errorf("openapi parser: schema %q is unresolved", name)
	}

	schema := convertSchema(ref.Value)
	properties := make(map[string]pkgopenapi.Schema)
	collectProperties(properties, &schema, ref.Value, map[*openapi3.Schema]bool{})
	if len(properties) > 0 {
		schema.Properties = properties
	}
	return schema, nil
}

func (p *Parser) load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

// collectProperties walks src and its allOf members, converting each
// property without descending into nested objects.
func collectProperties(target map[string]pkgopenapi.Schema, schema *pkgopenapi.Schema, src *openapi3.Schema, seen map[*openapi3.Schema]bool) {
	if src == nil || seen[src] {
		return
	}
	seen[src] = true

	for name, property := range src.Properties {
		if property == nil || property.Value == nil {
			continue
		}
		if _, exists := target[name]; exists {
			continue
		}
		target[name] = convertSchema(property.Value)
	}
	schema.Required = appendUnique(schema.Required, src.Required...)
	for key, value := range extractExtensions(src.Extensions) {
		if _, exists := schema.Extensions[key]; exists {
			continue
		}
		if schema.Extensions == nil {
			schema.Extensions = make(map[string]any)
		}
		schema.Extensions[key] = value
	}

	for _, member := range src.AllOf {
		if member == nil {
			continue
		}
		collectProperties(target, schema, member.Value, seen)
	}
}

func convertSchema(src *openapi3.Schema) pkgopenapi.Schema {
	schema := pkgopenapi.Schema{
		Title:       src.Title,
		Description: src.Description,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Pattern:     src.Pattern,
		Default:     src.Default,
		Extensions:  extractExtensions(src.Extensions),
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	return schema
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

// extractExtensions keeps only x- keys; kin-openapi may carry others.
func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	result := make(map[string]any)
	for key, value := range raw {
		if strings.HasPrefix(key, "x-") && value != nil {
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func appendUnique(list []string, values ...string) []string {
	for _, value := range values {
		found := false
		for _, existing := range list {
			if existing == value {
				found = true
				break
			}
		}
		if !found {
			list = append(list, value)
		}
	}
	return list
}
