package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// DefaultAdapterName is the adapter's registry name.
const DefaultAdapterName = "openapi"

// ErrParserRequired is returned when an adapter has no parser.
var ErrParserRequired = errors.New("openapi adapter: parser is nil")

// Option configures an Adapter.
type Option func(*Adapter)

// WithLabeler fills display names for properties that declare neither
// x-display-name nor title. Without a labeler such properties stay hidden.
func WithLabeler(labeler Labeler) Option {
	return func(a *Adapter) {
		a.labeler = labeler
	}
}

// Adapter maps an OpenAPI component schema onto connector metadata.
type Adapter struct {
	parser  Parser
	labeler Labeler
}

// NewAdapter constructs an adapter on top of parser.
func NewAdapter(parser Parser, options ...Option) *Adapter {
	a := &Adapter{parser: parser}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be OpenAPI.
func (a *Adapter) Detect(raw []byte) bool {
	return detectOpenAPI(raw)
}

// Components lists the component schema names in the document.
func (a *Adapter) Components(ctx context.Context, raw []byte) ([]string, error) {
	if a == nil || a.parser == nil {
		return nil, ErrParserRequired
	}
	return a.parser.ComponentNames(ctx, raw)
}

// Metadata loads the component schema called schemaName and converts each of
// its properties into a metadata node. Properties listed in a sibling's
// x-sub-properties are nested under that sibling instead of the top level.
func (a *Adapter) Metadata(ctx context.Context, raw []byte, schemaName string) (metadata.ComponentMetadata, error) {
	if a == nil || a.parser == nil {
		return metadata.ComponentMetadata{}, ErrParserRequired
	}
	schema, err := a.parser.ComponentSchema(ctx, raw, schemaName)
	if err != nil {
		return metadata.ComponentMetadata{}, err
	}

	nodes := make(map[string]metadata.PropertyMetadata, len(schema.Properties))
	names := make([]string, 0, len(schema.Properties))
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	for name, property := range schema.Properties {
		nodes[name] = a.node(name, property, required[name])
		names = append(names, name)
	}
	sort.Strings(names)

	nested := newNester(schema.Properties, nodes)
	list := make([]metadata.PropertyMetadata, 0, len(names))
	for _, name := range names {
		if nested.claimed(name) {
			continue
		}
		list = append(list, nested.resolve(name))
	}

	return metadata.ComponentMetadata{
		Properties: list,
		Attributes: attributes(schemaName, schema),
	}, nil
}

func (a *Adapter) node(name string, property Schema, required bool) metadata.PropertyMetadata {
	node := metadata.PropertyMetadata{
		Key:            name,
		DisplayName:    displayName(property),
		Description:    property.Description,
		DisplayOrder:   intExtension(property.Extensions, ExtensionDisplayOrder),
		Type:           propertyType(property),
		IsMandatory:    required,
		IsConfidential: boolExtension(property.Extensions, ExtensionConfidential) || property.Format == "password",
		Regex:          property.Pattern,
	}
	if node.DisplayName == "" && a.labeler != nil {
		node.DisplayName = a.labeler(name)
	}
	if property.Default != nil {
		node.DefaultValue = scalarString(property.Default)
	}
	for _, value := range property.Enum {
		node.Options = append(node.Options, scalarString(value))
	}
	return node
}

// nester assigns x-sub-properties children to their parents. A property
// claimed by several parents stays with the first one in key order, and
// claims that would close a cycle are ignored.
type nester struct {
	nodes    map[string]metadata.PropertyMetadata
	children map[string][]string
	owner    map[string]string
}

func newNester(properties map[string]Schema, nodes map[string]metadata.PropertyMetadata) nester {
	n := nester{
		nodes:    nodes,
		children: make(map[string][]string),
		owner:    make(map[string]string),
	}
	parents := make([]string, 0, len(properties))
	for name := range properties {
		parents = append(parents, name)
	}
	sort.Strings(parents)
	for _, parent := range parents {
		for _, child := range stringsExtension(properties[parent].Extensions, ExtensionSubProperties) {
			if child == parent {
				continue
			}
			if _, ok := nodes[child]; !ok {
				continue
			}
			if _, taken := n.owner[child]; taken || n.ancestor(child, parent) {
				continue
			}
			n.owner[child] = parent
			n.children[parent] = append(n.children[parent], child)
		}
	}
	return n
}

func (n nester) claimed(name string) bool {
	_, ok := n.owner[name]
	return ok
}

// ancestor reports whether candidate owns name directly or transitively.
func (n nester) ancestor(candidate, name string) bool {
	for current, ok := name, true; ok; current, ok = n.owner[current] {
		if current == candidate {
			return true
		}
	}
	return false
}

func (n nester) resolve(name string) metadata.PropertyMetadata {
	node := n.nodes[name]
	for _, child := range n.children[name] {
		node.SubProperties = append(node.SubProperties, n.resolve(child))
	}
	return node
}

func displayName(property Schema) string {
	if value, ok := property.Extensions[ExtensionDisplayName].(string); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(property.Title)
}

// propertyType prefers x-property-type and otherwise derives the tag from the
// JSON schema type and format.
func propertyType(property Schema) string {
	if value, ok := property.Extensions[ExtensionPropertyType].(string); ok && value != "" {
		return string(metadata.ParsePropertyType(value))
	}
	switch property.Type {
	case "boolean":
		return string(metadata.PropertyTypeBoolean)
	case "integer":
		return string(metadata.PropertyTypeInteger)
	case "number":
		return string(metadata.PropertyTypeNumber)
	}
	switch property.Format {
	case "password":
		return string(metadata.PropertyTypePassword)
	case "uri", "url":
		return string(metadata.PropertyTypeURL)
	}
	return string(metadata.PropertyTypeString)
}

func attributes(name string, schema Schema) map[string]any {
	attrs := map[string]any{"name": name}
	if display := displayName(schema); display != "" {
		attrs["displayName"] = display
	}
	if schema.Description != "" {
		attrs["description"] = schema.Description
	}
	return attrs
}

func intExtension(ext map[string]any, key string) int {
	switch v := ext[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(math.Round(v))
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

func boolExtension(ext map[string]any, key string) bool {
	switch v := ext[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

func stringsExtension(ext map[string]any, key string) []string {
	switch v := ext[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
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

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func detectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, ok := payload["openapi"]
			return ok
		}
	}
	return bytes.Contains(bytes.ToLower(trimmed), []byte("openapi:"))
}
