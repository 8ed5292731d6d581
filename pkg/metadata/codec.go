package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const propertiesField = "properties"

// MarshalJSON flattens Attributes next to the properties list.
func (c Component) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+1)
	for key, value := range c.Attributes {
		out[key] = value
	}
	props := c.Properties
	if props == nil {
		props = []Property{}
	}
	out[propertiesField] = props
	return json.Marshal(out)
}

// UnmarshalJSON splits the properties list from the remaining fields.
func (c *Component) UnmarshalJSON(data []byte) error {
	var props []Property
	attrs, err := splitRecord(data, &props)
	if err != nil {
		return fmt.Errorf("metadata: decode component: %w", err)
	}
	c.Properties = props
	c.Attributes = attrs
	return nil
}

// MarshalJSON flattens Attributes next to the properties tree.
func (c ComponentMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+1)
	for key, value := range c.Attributes {
		out[key] = value
	}
	props := c.Properties
	if props == nil {
		props = []PropertyMetadata{}
	}
	out[propertiesField] = props
	return json.Marshal(out)
}

// UnmarshalJSON accepts either a record with a properties field or a bare
// array of property metadata.
func (c *ComponentMetadata) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var props []PropertyMetadata
		if err := json.Unmarshal(data, &props); err != nil {
			return fmt.Errorf("metadata: decode property list: %w", err)
		}
		c.Properties = props
		c.Attributes = nil
		return nil
	}

	var props []PropertyMetadata
	attrs, err := splitRecord(data, &props)
	if err != nil {
		return fmt.Errorf("metadata: decode component metadata: %w", err)
	}
	c.Properties = props
	c.Attributes = attrs
	return nil
}

func splitRecord(data []byte, props any) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var attrs map[string]any
	for key, value := range raw {
		if key == propertiesField {
			if err := json.Unmarshal(value, props); err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		if attrs == nil {
			attrs = make(map[string]any, len(raw))
		}
		attrs[key] = decoded
	}
	return attrs, nil
}

// DecodeMetadata parses a metadata document. JSON is tried first, then YAML.
func DecodeMetadata(data []byte) (ComponentMetadata, error) {
	var out ComponentMetadata
	if err := decode(data, &out); err != nil {
		return ComponentMetadata{}, fmt.Errorf("metadata: decode metadata: %w", err)
	}
	return out, nil
}

// DecodeComponent parses a component (initial values) document. JSON is tried
// first, then YAML.
func DecodeComponent(data []byte) (Component, error) {
	var out Component
	if err := decode(data, &out); err != nil {
		return Component{}, fmt.Errorf("metadata: decode component: %w", err)
	}
	return out, nil
}

func decode(data []byte, target any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New("document is empty")
	}

	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	// YAML documents are re-encoded as JSON so the flattening rules of the
	// custom unmarshalers apply to both formats.
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return errors.New("invalid JSON or YAML")
	}
	payload, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("re-encode YAML: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return err
	}
	return nil
}
