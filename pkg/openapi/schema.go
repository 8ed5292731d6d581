package openapi

import "context"

// Extension keys read from component schemas and their properties.
const (
	ExtensionDisplayName   = "x-display-name"
	ExtensionDisplayOrder  = "x-display-order"
	ExtensionPropertyType  = "x-property-type"
	ExtensionConfidential  = "x-confidential"
	ExtensionSubProperties = "x-sub-properties"
)

// Schema is the subset of an OpenAPI schema object the adapter consumes.
type Schema struct {
	Title       string
	Description string
	Type        string
	Format      string
	Pattern     string
	Default     any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	Extensions  map[string]any
}

// ParserOptions tunes document loading.
type ParserOptions struct {
	// ResolveReferences allows external $ref resolution and validates the
	// loaded document.
	ResolveReferences bool
}

// Parser resolves a named component schema from a raw OpenAPI document.
type Parser interface {
	ComponentSchema(ctx context.Context, raw []byte, name string) (Schema, error)
	ComponentNames(ctx context.Context, raw []byte) ([]string, error)
}
