package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
)

const templatePrefix = "templates/components/"

// Partial keys a theme can override.
const (
	PartialInput    = "forms.input"
	PartialCheckbox = "forms.checkbox"
	PartialRadio    = "forms.radio"
	PartialSelect   = "forms.select"
)

// NewDefaultRegistry constructs a registry holding one component per form
// control type.
func NewDefaultRegistry() *Registry {
	registry := New()

	input := templateComponentRenderer(PartialInput, templatePrefix+"input.tmpl")
	registry.MustRegister(NameText, Descriptor{Renderer: input})
	registry.MustRegister(NamePassword, Descriptor{Renderer: input})
	registry.MustRegister(NameURL, Descriptor{Renderer: input})
	registry.MustRegister(NameNumber, Descriptor{Renderer: input})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckbox, templatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer(PartialRadio, templatePrefix+"radio.tmpl"),
	})
	registry.MustRegister(NameDropdown, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl"),
	})

	return registry
}

// templateComponentRenderer renders templateName, or the theme's override for
// partialKey when one is configured and loads. A failing override falls back
// to the built-in template.
func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field form.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload := map[string]any{"control": ControlView(field, data)}

		if override := strings.TrimSpace(data.ThemePartials[partialKey]); override != "" && override != templateName {
			if rendered, err := data.Template.RenderTemplate(override, payload); err == nil {
				buf.WriteString(rendered)
				return nil
			}
		}

		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// ControlView is the template payload for a field's control.
func ControlView(field form.Field, data ComponentData) map[string]any {
	view := map[string]any{
		"id":           ControlID(field.Key),
		"name":         field.Key,
		"input_type":   inputType(field.Control),
		"value":        field.Value,
		"has_value":    field.HasValue,
		"checked":      field.Checked(),
		"required":     field.Required,
		"pattern":      field.Pattern,
		"placeholder":  field.Default,
		"listen":       field.Listen,
		"invalid":      len(data.Errors) > 0,
		"described_by": data.DescribedBy,
		"autocomplete": "",
	}
	if field.Control == form.ControlPassword {
		view["autocomplete"] = "new-password"
	}

	if len(field.Options) > 0 {
		options := make([]map[string]any, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, map[string]any{
				"value":    option,
				"label":    option,
				"selected": field.HasValue && field.Value == option,
			})
		}
		view["options"] = options
	}
	return view
}

// ControlID is the DOM id of the control rendered for key.
func ControlID(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	return "cf-" + trimmed
}

func inputType(control form.ControlType) string {
	switch control {
	case form.ControlPassword:
		return "password"
	case form.ControlURL:
		return "url"
	case form.ControlNumber:
		return "number"
	default:
		return "text"
	}
}
