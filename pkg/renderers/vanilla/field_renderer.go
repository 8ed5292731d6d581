package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/render/template"
	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
	}
}

func (r *componentRenderer) render(field form.Field, errs []string) (string, error) {
	name := string(field.Control)
	if name == "" {
		name = components.NameText
	}
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for property %q", name, field.Key)
	}

	description := sanitizeText(field.Description)
	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		Errors:        errs,
	}
	if description != "" {
		data.DescribedBy = descriptionID(field.Key)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for property %q: %w", name, field.Key, err)
	}
	return buildFieldMarkup(field, name, control.String(), description, errs), nil
}

// buildFieldMarkup wraps a control with its label, description and errors.
// Fields whose parent is unchecked keep their markup but carry the hidden
// attribute so a client script can reveal them without a round trip.
func buildFieldMarkup(field form.Field, componentName, control, description string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	classes := append([]string{string(ClassField)}, layoutClasses(field.Layout)...)
	if field.Depth > 0 {
		classes = append(classes, string(ClassNested))
	}

	builder.WriteString(`    <div class="`)
	builder.WriteString(html.EscapeString(strings.Join(classes, " ")))
	builder.WriteString(`" data-property="`)
	builder.WriteString(html.EscapeString(field.Key))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`"`)
	if field.Depth > 0 {
		builder.WriteString(` data-depth="`)
		builder.WriteString(strconv.Itoa(field.Depth))
		builder.WriteString(`"`)
	}
	if field.Parent != "" {
		builder.WriteString(` data-parent="`)
		builder.WriteString(html.EscapeString(field.Parent))
		builder.WriteString(`"`)
	}
	if len(errs) > 0 {
		builder.WriteString(` data-validation-state="invalid"`)
	}
	if !field.Revealed {
		builder.WriteString(` hidden`)
	}
	builder.WriteString(">\n")

	if label := sanitizeText(field.Label); label != "" {
		builder.WriteString(`      <label for="`)
		builder.WriteString(html.EscapeString(components.ControlID(field.Key)))
		builder.WriteString(`">`)
		builder.WriteString(label)
		if field.Required {
			builder.WriteString(`<span class="cf-required">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("      ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if description != "" {
		builder.WriteString(`      <small class="cf-description" id="`)
		builder.WriteString(html.EscapeString(descriptionID(field.Key)))
		builder.WriteString(`">`)
		builder.WriteString(description)
		builder.WriteString("</small>\n")
	}

	for _, message := range errs {
		builder.WriteString(`      <p class="cf-error">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("    </div>\n")
	return builder.String()
}
