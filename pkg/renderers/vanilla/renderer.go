package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/render"
	rendertemplate "github.com/goliatone/go-connectorform/pkg/render/template"
	gotemplate "github.com/goliatone/go-connectorform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	submitLabel      string
	customLabel      string
	inlineStyles     bool
	inlineRuntime    bool
	runtimeURL       string
	goTemplate       bool
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the control components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithSubmitLabel overrides the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(label) != "" {
			cfg.submitLabel = strings.TrimSpace(label)
		}
	}
}

// WithCustomPropertiesLabel overrides the custom properties caption.
func WithCustomPropertiesLabel(label string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(label) != "" {
			cfg.customLabel = strings.TrimSpace(label)
		}
	}
}

// WithInlineStylesheet embeds the default stylesheet in a style element
// ahead of the form.
func WithInlineStylesheet() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithInlineRuntime embeds the reveal script in a script element after the
// form whenever the form has toggle parents.
func WithInlineRuntime() Option {
	return func(cfg *config) {
		cfg.inlineRuntime = true
	}
}

// WithRuntimeURL references the reveal script served from url, typically a
// mount of RuntimeFS. Takes precedence over WithInlineRuntime.
func WithRuntimeURL(url string) Option {
	return func(cfg *config) {
		cfg.runtimeURL = strings.TrimSpace(url)
	}
}

// WithGoTemplateEngine renders through github.com/goliatone/go-template
// instead of the built-in pongo2 set. Ignored with WithTemplateRenderer.
func WithGoTemplateEngine() Option {
	return func(cfg *config) {
		cfg.goTemplate = true
	}
}

// Renderer renders a form as an HTML fragment.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	registry      *components.Registry
	submitLabel   string
	customLabel   string
	inlineStyles  bool
	inlineRuntime bool
	runtimeURL    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		submitLabel: "Submit",
		customLabel: "Custom properties",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOptions := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		var err error
		if cfg.goTemplate {
			templates, err = gotemplate.NewLibrary(engineOptions...)
		} else {
			templates, err = gotemplate.New(engineOptions...)
		}
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:     templates,
		registry:      registry,
		submitLabel:   cfg.submitLabel,
		customLabel:   cfg.customLabel,
		inlineStyles:  cfg.inlineStyles,
		inlineRuntime: cfg.inlineRuntime,
		runtimeURL:    cfg.runtimeURL,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form's current fields. An unmounted form renders an
// empty document.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if f == nil {
		return nil, errors.New("vanilla renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := f.Fields()
	if fields == nil {
		return []byte{}, nil
	}

	comps := newComponentRenderer(r.templates, r.registry, themePartials(opts.Theme))
	markup := make([]string, 0, len(fields))
	for _, field := range fields {
		out, err := comps.render(field, opts.FieldErrors(field.Key))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, out)
	}

	method, override := render.BrowserMethod(opts.Method)
	hiddenFields := opts.HiddenFields
	if override != "" {
		hiddenFields = render.MergeHiddenFields(hiddenFields, render.Hidden(render.MethodOverrideField, override))
	}
	hidden := make([]map[string]any, 0, len(hiddenFields))
	for _, field := range render.SortedHiddenFields(hiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	customErrors := opts.FieldErrors(form.CustomPropertiesField)
	view := map[string]any{
		"classes":       chromeClasses(),
		"method":        method,
		"action":        strings.TrimSpace(opts.Action),
		"test_id":       strings.TrimSpace(opts.TestID),
		"theme":         themeView(opts.Theme),
		"stylesheet":    themeStylesheet(opts.Theme),
		"hidden_fields": hidden,
		"form_errors":   render.MergeFormErrors(opts.FormErrors),
		"fields":        markup,
		"custom_properties": map[string]any{
			"show":   f.ShowCustomProperties() || len(customErrors) > 0,
			"name":   form.CustomPropertiesField,
			"label":  r.customLabel,
			"value":  f.CustomProperties(),
			"errors": customErrors,
		},
		"submit": map[string]any{
			"show":  f.SubmitButtonEnabled(),
			"label": r.submitLabel,
		},
	}
	if r.inlineStyles {
		view["inline_styles"] = stylesheet()
	}
	if hasListeners(fields) {
		switch {
		case r.runtimeURL != "":
			view["runtime_url"] = r.runtimeURL
		case r.inlineRuntime:
			view["inline_runtime"] = runtimeScript()
		}
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func hasListeners(fields []form.Field) bool {
	for _, field := range fields {
		if field.Listen {
			return true
		}
	}
	return false
}
