// Package alert carries user facing notifications. Page level failures are
// turned into an Alert and handed to a Sink instead of being returned up the
// stack.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/oops"
	slogctx "github.com/veqryn/slog-context"

	"github.com/goliatone/go-connectorform/pkg/form"
)

// Level is the severity shown with an alert.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Alert is a {message, description, level} notification.
type Alert struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Level       Level  `json:"level"`
}

// Success builds a success alert.
func Success(message string) Alert {
	return Alert{Message: message, Level: LevelSuccess}
}

// MalformedCustomProperties warns that segments were saved without a value.
func MalformedCustomProperties(segments []string) Alert {
	return Alert{
		Message:     "Custom properties saved without values",
		Description: "missing \"=\" in: " + strings.Join(segments, ", "),
		Level:       LevelWarning,
	}
}

// FromError maps err onto an alert. Custom property parsing failures become
// warnings the user can fix; oops errors contribute their public message,
// hint and domain; anything else is a generic error alert.
func FromError(err error) Alert {
	if err == nil {
		return Alert{}
	}

	var cpErr *form.CustomPropertyError
	if errors.As(err, &cpErr) {
		return Alert{
			Message:     "Invalid custom properties",
			Description: cpErr.Error(),
			Level:       LevelWarning,
		}
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		message := oopsErr.Public()
		if message == "" {
			message = firstLine(oopsErr.Error())
		}
		if domain := oopsErr.Domain(); domain != "" {
			message = domain + ": " + message
		}
		return Alert{
			Message:     message,
			Description: oopsErr.Hint(),
			Level:       LevelError,
		}
	}

	return Alert{
		Message:     "Request failed",
		Description: err.Error(),
		Level:       LevelError,
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Sink receives alerts.
type Sink interface {
	Alert(ctx context.Context, a Alert)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a Alert)

// Alert calls fn.
func (fn SinkFunc) Alert(ctx context.Context, a Alert) {
	if fn != nil {
		fn(ctx, a)
	}
}

// Report converts err and dispatches it. It returns false when err is nil.
func Report(ctx context.Context, sink Sink, err error) bool {
	if err == nil {
		return false
	}
	if sink != nil {
		sink.Alert(ctx, FromError(err))
	}
	return true
}

// SlogSink logs alerts. Without a logger it uses the one stored in the
// context.
type SlogSink struct {
	Logger *slog.Logger
}

// Alert logs a at the slog level matching its severity.
func (s SlogSink) Alert(ctx context.Context, a Alert) {
	logger := s.Logger
	if logger == nil {
		logger = slogctx.FromCtx(ctx)
	}
	logger.LogAttrs(ctx, slogLevel(a.Level), a.Message,
		slog.String("severity", string(a.Level)),
		slog.String("description", a.Description),
	)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Recorder keeps every alert it receives.
type Recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

// Alert records a.
func (r *Recorder) Alert(_ context.Context, a Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

// Alerts returns a copy of the recorded alerts.
func (r *Recorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Alert(nil), r.alerts...)
}
