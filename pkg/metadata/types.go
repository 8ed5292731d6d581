package metadata

import (
	"fmt"
	"strings"
)

// PropertyType is the normalised type tag of a property metadata node.
type PropertyType string

const (
	PropertyTypeUnknown  PropertyType = ""
	PropertyTypeString   PropertyType = "STRING"
	PropertyTypeBoolean  PropertyType = "BOOLEAN"
	PropertyTypeRadio    PropertyType = "RADIO"
	PropertyTypeCheckbox PropertyType = "CHECKBOX"
	PropertyTypePassword PropertyType = "PASSWORD"
	PropertyTypeURL      PropertyType = "URL"
	PropertyTypeInteger  PropertyType = "INTEGER"
	PropertyTypeNumber   PropertyType = "NUMBER"
	PropertyTypeOptions  PropertyType = "OPTIONS"
)

// ParsePropertyType normalises a raw type tag. Matching is case-insensitive;
// "TEXT" is accepted as an alias of STRING. Unrecognised tags map to
// PropertyTypeUnknown.
func ParsePropertyType(raw string) PropertyType {
	tag := PropertyType(strings.ToUpper(strings.TrimSpace(raw)))
	switch tag {
	case PropertyTypeString, PropertyTypeBoolean, PropertyTypeRadio,
		PropertyTypeCheckbox, PropertyTypePassword, PropertyTypeURL,
		PropertyTypeInteger, PropertyTypeNumber, PropertyTypeOptions:
		return tag
	case "TEXT":
		return PropertyTypeString
	default:
		return PropertyTypeUnknown
	}
}

// PropertyMetadata describes one configurable property of a connector. Nodes
// form a tree through SubProperties, which only CHECKBOX and RADIO parents use
// to reveal nested fields. A node with an empty DisplayName is never rendered
// nor submitted.
type PropertyMetadata struct {
	Key            string             `json:"key" yaml:"key"`
	DisplayName    string             `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description    string             `json:"description,omitempty" yaml:"description,omitempty"`
	DisplayOrder   int                `json:"displayOrder" yaml:"displayOrder"`
	Type           string             `json:"type,omitempty" yaml:"type,omitempty"`
	IsMandatory    bool               `json:"isMandatory,omitempty" yaml:"isMandatory,omitempty"`
	IsConfidential bool               `json:"isConfidential,omitempty" yaml:"isConfidential,omitempty"`
	Options        []string           `json:"options,omitempty" yaml:"options,omitempty"`
	DefaultValue   string             `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Regex          string             `json:"regex,omitempty" yaml:"regex,omitempty"`
	SubProperties  []PropertyMetadata `json:"subProperties,omitempty" yaml:"subProperties,omitempty"`
}

// PropertyType returns the normalised type tag.
func (m PropertyMetadata) PropertyType() PropertyType {
	return ParsePropertyType(m.Type)
}

// Visible reports whether the node carries a display name.
func (m PropertyMetadata) Visible() bool {
	return strings.TrimSpace(m.DisplayName) != ""
}

// HasSubProperties reports whether the node reveals nested properties.
func (m PropertyMetadata) HasSubProperties() bool {
	return len(m.SubProperties) > 0
}

// Clone returns a deep copy of the node and its subtree.
func (m PropertyMetadata) Clone() PropertyMetadata {
	out := m
	if len(m.Options) > 0 {
		out.Options = append([]string(nil), m.Options...)
	}
	if len(m.SubProperties) > 0 {
		out.SubProperties = CloneMetadataList(m.SubProperties)
	}
	return out
}

// CloneMetadataList deep copies a metadata list.
func CloneMetadataList(list []PropertyMetadata) []PropertyMetadata {
	if list == nil {
		return nil
	}
	out := make([]PropertyMetadata, len(list))
	for i, node := range list {
		out[i] = node.Clone()
	}
	return out
}

// Property is the current or edited value of one metadata key. Stored values
// are strings; submission payloads may carry booleans, and a nil Value marks a
// custom property whose text had no value part.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// Text renders the value as the string shown in form controls.
func (p Property) Text() string {
	switch v := p.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ComponentMetadata is the metadata payload published for a connector:
// its property tree plus every other descriptive field (name, displayName,
// ...) kept verbatim in Attributes.
type ComponentMetadata struct {
	Properties []PropertyMetadata
	Attributes map[string]any
}

// Find returns the first node with the given key, searching sub-properties
// depth first.
func (c ComponentMetadata) Find(key string) (PropertyMetadata, bool) {
	return FindMetadata(c.Properties, key)
}

// Clone deep copies the metadata.
func (c ComponentMetadata) Clone() ComponentMetadata {
	return ComponentMetadata{
		Properties: CloneMetadataList(c.Properties),
		Attributes: cloneAttributes(c.Attributes),
	}
}

// Component is a connector configuration: the flat property list plus the
// remaining fields of the record (identifiers, names, flags) in Attributes.
// It is used for initial values and for submission payloads.
type Component struct {
	Properties []Property
	Attributes map[string]any
}

// Find returns the property stored under key using a linear scan.
func (c *Component) Find(key string) (Property, bool) {
	if c == nil {
		return Property{}, false
	}
	for _, prop := range c.Properties {
		if prop.Key == key {
			return prop, true
		}
	}
	return Property{}, false
}

// Attribute returns a top-level field other than properties.
func (c *Component) Attribute(name string) (any, bool) {
	if c == nil || c.Attributes == nil {
		return nil, false
	}
	value, ok := c.Attributes[name]
	return value, ok
}

// Clone returns a copy safe to mutate. A nil receiver yields nil.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{Attributes: cloneAttributes(c.Attributes)}
	if c.Properties != nil {
		out.Properties = append([]Property(nil), c.Properties...)
	}
	return out
}

// FindMetadata searches list and nested sub-properties for key.
func FindMetadata(list []PropertyMetadata, key string) (PropertyMetadata, bool) {
	for _, node := range list {
		if node.Key == key {
			return node, true
		}
		if found, ok := FindMetadata(node.SubProperties, key); ok {
			return found, true
		}
	}
	return PropertyMetadata{}, false
}

// Walk visits every node depth first in declaration order. Returning false
// from fn skips the node's subtree.
func Walk(list []PropertyMetadata, fn func(node PropertyMetadata, depth int) bool) {
	walk(list, 0, fn)
}

func walk(list []PropertyMetadata, depth int, fn func(PropertyMetadata, int) bool) {
	for _, node := range list {
		if !fn(node, depth) {
			continue
		}
		walk(node.SubProperties, depth+1, fn)
	}
}

func cloneAttributes(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
