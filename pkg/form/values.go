package form

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// CustomPropertiesField is the reserved form field holding the comma joined
// "key=value" list of properties the metadata does not describe.
const CustomPropertiesField = "customProperties"

// FormValue is a raw submitted value: either a single text entry or the list
// of option values selected in a checkbox or radio group.
type FormValue struct {
	items []string
	list  bool
}

// Text wraps a text input value.
func Text(value string) FormValue {
	return FormValue{items: []string{value}}
}

// Selected wraps the option values chosen in a checkbox or radio group.
func Selected(values ...string) FormValue {
	return FormValue{items: append([]string{}, values...), list: true}
}

// IsList reports whether the value came from a selection group.
func (v FormValue) IsList() bool { return v.list }

// IsEmpty reports whether the value carries no text or no selection.
func (v FormValue) IsEmpty() bool {
	if v.list {
		return len(v.items) == 0
	}
	return len(v.items) == 0 || v.items[0] == ""
}

// Includes reports whether key is part of the value set. Text values are a
// set of one entry.
func (v FormValue) Includes(key string) bool {
	for _, item := range v.items {
		if item == key {
			return true
		}
	}
	return false
}

// Raw returns the value as submitted: a string for text values, a copy of the
// selection for groups.
func (v FormValue) Raw() any {
	if v.list {
		return append([]string{}, v.items...)
	}
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// String joins selections with commas.
func (v FormValue) String() string {
	return strings.Join(v.items, ",")
}

// FormValues maps field names to their raw submitted values.
type FormValues map[string]FormValue

// Toggle returns the values a checkbox change for key produces.
func Toggle(key string, checked bool) FormValues {
	if checked {
		return FormValues{key: Selected(key)}
	}
	return FormValues{key: Selected()}
}

// UnmarshalJSON accepts strings, string arrays, booleans and numbers. A true
// boolean becomes a selection holding the field's own name.
func (fv *FormValues) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("form: decode values: %w", err)
	}

	out := make(FormValues, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			out[key] = Text("")
		case string:
			out[key] = Text(v)
		case bool:
			if v {
				out[key] = Selected(key)
			} else {
				out[key] = Selected()
			}
		case float64:
			out[key] = Text(fmt.Sprint(v))
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			out[key] = Selected(items...)
		default:
			return fmt.Errorf("form: decode values: field %q has unsupported type %T", key, value)
		}
	}
	*fv = out
	return nil
}

// FromURLValues converts a browser form post. Repeated names become
// selections; everything else is text, so a checked box posting its own key
// still reads as checked. Names starting with "_" (CSRF tokens, method
// overrides) are skipped.
func FromURLValues(values url.Values) FormValues {
	out := make(FormValues, len(values))
	for key, items := range values {
		if strings.HasPrefix(key, "_") {
			continue
		}
		switch len(items) {
		case 0:
			out[key] = Selected()
		case 1:
			out[key] = Text(items[0])
		default:
			out[key] = Selected(items...)
		}
	}
	return out
}
