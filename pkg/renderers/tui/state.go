package tui

import (
	"github.com/goliatone/go-connectorform/pkg/form"
)

// State tracks the answers collected during one terminal session.
type State struct {
	values form.FormValues
	errors map[string][]string
	asked  map[string]struct{}
}

// NewState seeds a session with server side errors keyed by property.
func NewState(errs map[string][]string) *State {
	return &State{
		values: make(form.FormValues),
		errors: cloneErrors(errs),
		asked:  make(map[string]struct{}),
	}
}

// Values returns a copy of the collected answers.
func (s *State) Values() form.FormValues {
	out := make(form.FormValues, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// ErrorsFor returns the errors recorded for key.
func (s *State) ErrorsFor(key string) []string {
	return s.errors[key]
}

// Set records the answer for key.
func (s *State) Set(key string, value form.FormValue) {
	s.values[key] = value
}

// Next returns the first revealed field that has not been prompted yet.
// Fields are re-read after every parent change, so children revealed by an
// answer are picked up in display order.
func (s *State) Next(fields []form.Field) (form.Field, bool) {
	for _, field := range fields {
		if !field.Revealed {
			continue
		}
		if _, done := s.asked[field.Key]; done {
			continue
		}
		s.asked[field.Key] = struct{}{}
		return field, true
	}
	return form.Field{}, false
}

// Prune drops answers for fields that are no longer revealed, keeping the
// custom properties entry.
func (s *State) Prune(fields []form.Field) {
	revealed := make(map[string]bool, len(fields))
	for _, field := range fields {
		revealed[field.Key] = field.Revealed
	}
	for key := range s.values {
		if key == form.CustomPropertiesField {
			continue
		}
		if !revealed[key] {
			delete(s.values, key)
		}
	}
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(src))
	for key, msgs := range src {
		out[key] = append([]string(nil), msgs...)
	}
	return out
}
