package form

import (
	"context"
	"log/slog"
)

// EventKind names a diagnostic event emitted through a TraceFunc.
type EventKind string

const (
	EventMounted             EventKind = "mounted"
	EventParentChanged       EventKind = "parent_changed"
	EventCustomProperties    EventKind = "custom_properties"
	EventCustomPropertyIssue EventKind = "custom_property_issue"
	EventSubmitted           EventKind = "submitted"
	EventUnmounted           EventKind = "unmounted"
)

// Event describes one state transition or reconciliation finding.
type Event struct {
	Kind   EventKind
	Key    string
	Value  string
	Detail string
}

// TraceFunc receives diagnostic events. It must not retain or mutate form
// state.
type TraceFunc func(Event)

func (fn TraceFunc) emit(event Event) {
	if fn != nil {
		fn(event)
	}
}

func (fn TraceFunc) then(next TraceFunc) TraceFunc {
	switch {
	case fn == nil:
		return next
	case next == nil:
		return fn
	}
	return func(event Event) {
		fn(event)
		next(event)
	}
}

// SlogTrace forwards events to logger at debug level, custom property issues
// at warn level.
func SlogTrace(logger *slog.Logger) TraceFunc {
	if logger == nil {
		return nil
	}
	return func(event Event) {
		level := slog.LevelDebug
		if event.Kind == EventCustomPropertyIssue {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{slog.String("event", string(event.Kind))}
		if event.Key != "" {
			attrs = append(attrs, slog.String("key", event.Key))
		}
		if event.Value != "" {
			attrs = append(attrs, slog.String("value", event.Value))
		}
		if event.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.Detail))
		}
		logger.LogAttrs(context.Background(), level, "connectorform", attrs...)
	}
}
