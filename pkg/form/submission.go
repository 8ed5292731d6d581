package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// CustomPropertyIssue locates a custom property segment without a "=".
type CustomPropertyIssue struct {
	Index   int
	Segment string
}

// CustomPropertyError is returned in strict mode when the custom properties
// text holds malformed segments.
type CustomPropertyError struct {
	Issues []CustomPropertyIssue
}

func (e *CustomPropertyError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("form: custom property %q is missing a value (expected key=value)", e.Issues[0].Segment)
	}
	segments := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		segments[i] = fmt.Sprintf("%q", issue.Segment)
	}
	return fmt.Sprintf("form: custom properties %s are missing values (expected key=value)", strings.Join(segments, ", "))
}

// ParseCustomProperties splits text on commas and each segment on its first
// "=". Keys and values are trimmed and blank segments skipped. A segment
// without "=" yields a property with a nil value and is reported as an issue.
func ParseCustomProperties(text string) ([]metadata.Property, []CustomPropertyIssue) {
	var (
		props  []metadata.Property
		issues []CustomPropertyIssue
	)
	for idx, segment := range strings.Split(text, ",") {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			props = append(props, metadata.Property{Key: trimmed})
			issues = append(issues, CustomPropertyIssue{Index: idx, Segment: trimmed})
			continue
		}
		props = append(props, metadata.Property{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return props, issues
}

// SubmitOption configures BuildSubmission.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	strict bool
	trace  TraceFunc
}

// WithStrictParsing rejects custom property segments without "=".
func WithStrictParsing() SubmitOption {
	return func(cfg *submitConfig) {
		cfg.strict = true
	}
}

// WithSubmitTrace reports lenient-mode parsing issues to fn.
func WithSubmitTrace(fn TraceFunc) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.trace = fn
	}
}

// BuildSubmission converts raw form values into a connector payload.
//
// Metadata keys are visited depth first in declaration order, skipping nodes
// (and subtrees) without a display name. Every key present in values with a
// non-empty value is emitted; BOOLEAN and RADIO properties become a boolean
// telling whether the submitted set includes the key, everything else passes
// through raw. Parsed custom properties follow in input order.
//
// The payload keeps the non-property fields of initial when initial carries
// properties, and those of the metadata record otherwise.
func BuildSubmission(meta metadata.ComponentMetadata, initial *metadata.Component, values FormValues, opts ...SubmitOption) (metadata.Component, error) {
	cfg := submitConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	properties := make([]metadata.Property, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	metadata.Walk(meta.Properties, func(node metadata.PropertyMetadata, _ int) bool {
		if !node.Visible() {
			return false
		}
		if node.Key == "" || node.Key == CustomPropertiesField {
			return true
		}
		if _, dup := seen[node.Key]; dup {
			return true
		}
		value, ok := values[node.Key]
		if !ok || value.IsEmpty() {
			return true
		}
		seen[node.Key] = struct{}{}
		properties = append(properties, metadata.Property{
			Key:   node.Key,
			Value: interpretValue(value, node.Key, node.PropertyType()),
		})
		return true
	})

	if raw, ok := values[CustomPropertiesField]; ok {
		custom, issues := ParseCustomProperties(raw.String())
		if len(issues) > 0 {
			if cfg.strict {
				return metadata.Component{}, &CustomPropertyError{Issues: issues}
			}
			for _, issue := range issues {
				cfg.trace.emit(Event{Kind: EventCustomPropertyIssue, Key: issue.Segment, Detail: "missing value"})
			}
		}
		properties = append(properties, custom...)
	}

	payload := metadata.Component{Properties: properties}
	if initial != nil && len(initial.Properties) > 0 {
		payload.Attributes = initial.Clone().Attributes
	} else {
		payload.Attributes = meta.Clone().Attributes
	}
	return payload, nil
}

func interpretValue(value FormValue, key string, kind metadata.PropertyType) any {
	switch kind {
	case metadata.PropertyTypeBoolean, metadata.PropertyTypeRadio:
		return value.Includes(key)
	case metadata.PropertyTypeString, metadata.PropertyTypeCheckbox,
		metadata.PropertyTypePassword, metadata.PropertyTypeURL,
		metadata.PropertyTypeInteger, metadata.PropertyTypeNumber,
		metadata.PropertyTypeOptions, metadata.PropertyTypeUnknown:
		return value.Raw()
	default:
		return value.Raw()
	}
}
