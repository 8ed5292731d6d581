package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form's working copy.
type RenderOptions struct {
	// Action is the URL the HTML form posts to. Empty renders no action
	// attribute.
	Action string
	// Method overrides the submit verb. Renderers translate verbs browsers do
	// not support (PATCH/PUT/DELETE) into POST plus a hidden _method input.
	Method string
	// Errors surfaces backend validation feedback keyed by property key. Use
	// MapErrorPayload to build it from a raw payload.
	Errors map[string][]string
	// FormErrors holds messages that do not belong to a single property.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// Theme carries the selected theme's tokens, partial overrides and asset
	// resolver.
	Theme *theme.RendererConfig
	// TestID is copied onto the form root as data-testid.
	TestID string
}

// FieldErrors returns the messages recorded for key.
func (o RenderOptions) FieldErrors(key string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[key]
}
