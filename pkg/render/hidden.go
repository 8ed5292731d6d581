package render

import (
	"fmt"
	"sort"
	"strings"
)

// MethodOverrideField carries the intended verb when the browser form falls
// back to POST.
const MethodOverrideField = "_method"

// HiddenField is a hidden form input emitted alongside the rendered
// properties.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token under the
// caller's input name ("_csrf", "csrf_token", ...).
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// ComponentID carries the identifier of the component being edited so the
// backend can tell create from update.
func ComponentID(name string, id any) HiddenField {
	return Hidden(name, id)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// BrowserMethod maps method onto a verb HTML forms support. The second value
// is the original verb when a MethodOverrideField input is needed.
func BrowserMethod(method string) (string, string) {
	verb := strings.ToUpper(strings.TrimSpace(method))
	switch verb {
	case "":
		return "post", ""
	case "GET", "POST":
		return strings.ToLower(verb), ""
	default:
		return "post", verb
	}
}
