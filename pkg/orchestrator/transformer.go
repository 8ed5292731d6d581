package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// Transformer rewrites metadata before the form is built. Implementations
// can relabel, reorder or hide properties.
type Transformer interface {
	Transform(ctx context.Context, meta *metadata.ComponentMetadata) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, meta *metadata.ComponentMetadata) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, meta *metadata.ComponentMetadata) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, meta)
}

// PresetTransformer applies declarative overrides read from a JSON or YAML
// document:
//
//	attributes:
//	  displayName: Corporate SSO
//	properties:
//	  ClientId:
//	    displayName: Application ID
//	    displayOrder: 10
//	  internalFlag:
//	    hidden: true
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Attributes map[string]any         `yaml:"attributes"`
	Properties map[string]presetPatch `yaml:"properties"`
}

type presetPatch struct {
	DisplayName  string   `yaml:"displayName"`
	Description  string   `yaml:"description"`
	DisplayOrder *int     `yaml:"displayOrder"`
	Mandatory    *bool    `yaml:"mandatory"`
	Confidential *bool    `yaml:"confidential"`
	DefaultValue *string  `yaml:"defaultValue"`
	Options      []string `yaml:"options"`
	// Hidden clears the display name, which drops the property from both the
	// rendered form and submissions.
	Hidden bool `yaml:"hidden"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches. A patch for a key missing from the
// metadata tree is an error.
func (t *PresetTransformer) Transform(ctx context.Context, meta *metadata.ComponentMetadata) error {
	if meta == nil {
		return errors.New("preset transformer: metadata is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Attributes) > 0 {
		if meta.Attributes == nil {
			meta.Attributes = make(map[string]any, len(t.document.Attributes))
		}
		for key, value := range t.document.Attributes {
			meta.Attributes[key] = value
		}
	}

	keys := make([]string, 0, len(t.document.Properties))
	for key := range t.document.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		node := findNode(meta.Properties, key)
		if node == nil {
			return fmt.Errorf("preset transformer: property %q not found", key)
		}
		applyPatch(node, t.document.Properties[key])
	}
	return nil
}

func applyPatch(node *metadata.PropertyMetadata, patch presetPatch) {
	if patch.DisplayName != "" {
		node.DisplayName = patch.DisplayName
	}
	if patch.Description != "" {
		node.Description = patch.Description
	}
	if patch.DisplayOrder != nil {
		node.DisplayOrder = *patch.DisplayOrder
	}
	if patch.Mandatory != nil {
		node.IsMandatory = *patch.Mandatory
	}
	if patch.Confidential != nil {
		node.IsConfidential = *patch.Confidential
	}
	if patch.DefaultValue != nil {
		node.DefaultValue = *patch.DefaultValue
	}
	if len(patch.Options) > 0 {
		node.Options = append([]string(nil), patch.Options...)
	}
	if patch.Hidden {
		node.DisplayName = ""
	}
}

func findNode(list []metadata.PropertyMetadata, key string) *metadata.PropertyMetadata {
	for idx := range list {
		node := &list[idx]
		if node.Key == key {
			return node
		}
		if found := findNode(node.SubProperties, key); found != nil {
			return found
		}
	}
	return nil
}
