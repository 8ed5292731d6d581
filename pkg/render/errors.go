package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// ErrorMapping splits a backend validation payload into property-level and
// form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapOption configures MapErrorPayload.
type MapOption func(*mapConfig)

type mapConfig struct {
	submitted []metadata.Property
}

// WithSubmitted resolves positional paths such as "properties/3/value"
// against the payload that was sent.
func WithSubmitted(payload metadata.Component) MapOption {
	return func(cfg *mapConfig) {
		cfg.submitted = payload.Properties
	}
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload maps backend validation paths onto property keys of list.
// Accepted shapes include "clientId", "/properties/clientId",
// "body.properties.clientId" and, with WithSubmitted, "properties/3/value".
// Keys the metadata does not describe but the submission carried map onto the
// custom properties field. Everything else becomes a form-level error.
// Paths are visited in sorted order so merged messages are stable.
func MapErrorPayload(list []metadata.PropertyMetadata, payload map[string][]string, options ...MapOption) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	cfg := mapConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	known := make(map[string]struct{})
	metadata.Walk(list, func(node metadata.PropertyMetadata, _ int) bool {
		if node.Key != "" {
			known[node.Key] = struct{}{}
		}
		return true
	})
	custom := make(map[string]struct{})
	for _, prop := range cfg.submitted {
		if _, ok := known[prop.Key]; !ok {
			custom[prop.Key] = struct{}{}
		}
	}

	paths := make([]string, 0, len(payload))
	for rawPath := range payload {
		paths = append(paths, rawPath)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		normalized := normalizeMessages(payload[rawPath])
		if len(normalized) == 0 {
			continue
		}

		key := mapErrorPath(rawPath, known, custom, cfg.submitted)
		if key == "" {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[key] = normalizeMessages(append(mapping.Fields[key], normalized...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known, custom map[string]struct{}, submitted []metadata.Property) string {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return ""
	}

	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return ""
	}

	if strings.EqualFold(segments[0], "properties") && len(segments) > 1 {
		if idx, err := strconv.Atoi(segments[1]); err == nil {
			if idx < 0 || idx >= len(submitted) {
				return ""
			}
			return resolveKey(submitted[idx].Key, known, custom)
		}
		segments = segments[1:]
	}

	for _, segment := range segments {
		if key := resolveKey(segment, known, custom); key != "" {
			return key
		}
	}
	return ""
}

func resolveKey(key string, known, custom map[string]struct{}) string {
	if _, ok := known[key]; ok {
		return key
	}
	if _, ok := custom[key]; ok {
		return form.CustomPropertiesField
	}
	return ""
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "component":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
