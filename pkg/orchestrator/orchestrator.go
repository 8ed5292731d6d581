package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	metadataloader "github.com/goliatone/go-connectorform/internal/metadata/loader"
	openapiparser "github.com/goliatone/go-connectorform/internal/openapi/parser"
	"github.com/goliatone/go-connectorform/pkg/alert"
	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-connectorform/pkg/openapi"
	"github.com/goliatone/go-connectorform/pkg/render"
	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader metadata.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithAdapterRegistry replaces the format adapters.
func WithAdapterRegistry(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = registry
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that rewrites metadata after it is
// loaded and before the form is built.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithFormOptions applies options to every form the orchestrator builds.
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithAlertSink receives an alert for every failed and successful submit.
func WithAlertSink(sink alert.Sink) Option {
	return func(o *Orchestrator) {
		o.alerts = sink
	}
}

// Orchestrator coordinates loading, form construction, rendering and
// submission.
type Orchestrator struct {
	loader          metadata.Loader
	adapters        *AdapterRegistry
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	formOptions     []form.Option
	alerts          alert.Sink
	themeSelector   ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
}

// New constructs an Orchestrator. Missing dependencies are filled with the
// built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.applyDefaults()
	return o
}

// Request describes one form: where its metadata and initial values come
// from and how to render it.
type Request struct {
	// MetadataSource locates the metadata document. Ignored when Metadata is
	// set.
	MetadataSource metadata.Source
	Metadata       *metadata.ComponentMetadata

	// Format names the adapter for the metadata document. Empty means
	// detection, falling back to native metadata.
	Format string
	// SchemaName selects the component schema of an OpenAPI document.
	SchemaName string

	// ValuesSource locates the initial values. Ignored when Values is set.
	// With neither the form stays unmounted and renders nothing.
	ValuesSource metadata.Source
	Values       *metadata.Component

	Renderer      string
	RenderOptions render.RenderOptions
	ThemeName     string
	ThemeVariant  string

	// FormOptions are applied after the orchestrator's own form options.
	FormOptions []form.Option
}

// Form loads metadata and values and builds the form.
func (o *Orchestrator) Form(ctx context.Context, req Request) (*form.Form, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	meta, err := o.resolveMetadata(ctx, req)
	if err != nil {
		return nil, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &meta); err != nil {
			return nil, fmt.Errorf("orchestrator: transform metadata: %w", err)
		}
	}

	values, err := o.resolveValues(ctx, req)
	if err != nil {
		return nil, err
	}

	options := append(append([]form.Option(nil), o.formOptions...), req.FormOptions...)
	f := form.New(meta, values, options...)

	slogctx.Debug(ctx, "orchestrator: form built",
		slog.Int("properties", len(meta.Properties)),
		slog.Bool("mounted", values != nil),
	)
	return f, nil
}

// Generate builds the form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	f, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return o.Render(ctx, f, req)
}

// Render renders an existing form with the renderer and theme named by req.
func (o *Orchestrator) Render(ctx context.Context, f *form.Form, req Request) ([]byte, error) {
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, f, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	slogctx.Debug(ctx, "orchestrator: rendered",
		slog.String("renderer", renderer.Name()),
		slog.Int("bytes", len(output)),
	)
	return output, nil
}

// Submit builds the form, submits values and returns the payload. The
// outcome is also reported to the alert sink when one is configured.
func (o *Orchestrator) Submit(ctx context.Context, req Request, values form.FormValues) (metadata.Component, error) {
	var malformed []string
	collect := form.WithTrace(func(e form.Event) {
		if e.Kind == form.EventCustomPropertyIssue {
			malformed = append(malformed, e.Key)
		}
	})
	req.FormOptions = append(append([]form.Option(nil), req.FormOptions...), collect)

	f, err := o.Form(ctx, req)
	if err != nil {
		alert.Report(ctx, o.alerts, err)
		return metadata.Component{}, err
	}
	defer f.Close()

	payload, err := f.Submit(ctx, values)
	if err != nil {
		alert.Report(ctx, o.alerts, err)
		return metadata.Component{}, fmt.Errorf("orchestrator: submit: %w", err)
	}
	if o.alerts != nil {
		if len(malformed) > 0 {
			o.alerts.Alert(ctx, alert.MalformedCustomProperties(malformed))
		}
		o.alerts.Alert(ctx, alert.Success("Configuration saved"))
	}
	slogctx.Debug(ctx, "orchestrator: submitted", slog.Int("properties", len(payload.Properties)))
	return payload, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveMetadata(ctx context.Context, req Request) (metadata.ComponentMetadata, error) {
	if req.Metadata != nil {
		return req.Metadata.Clone(), nil
	}
	if req.MetadataSource == nil {
		return metadata.ComponentMetadata{}, errors.New("orchestrator: metadata source or metadata is required")
	}
	doc, err := o.load(ctx, req.MetadataSource)
	if err != nil {
		return metadata.ComponentMetadata{}, fmt.Errorf("orchestrator: load metadata: %w", err)
	}

	adapter, err := o.resolveAdapter(req.Format, doc.Raw())
	if err != nil {
		return metadata.ComponentMetadata{}, err
	}
	meta, err := adapter.Metadata(ctx, doc.Raw(), req.SchemaName)
	if err != nil {
		return metadata.ComponentMetadata{}, fmt.Errorf("orchestrator: %s adapter: %w", adapter.Name(), err)
	}
	slogctx.Debug(ctx, "orchestrator: metadata loaded",
		slog.String("adapter", adapter.Name()),
		slog.String("location", doc.Location()),
	)
	return meta, nil
}

func (o *Orchestrator) resolveValues(ctx context.Context, req Request) (*metadata.Component, error) {
	if req.Values != nil {
		return req.Values.Clone(), nil
	}
	if req.ValuesSource == nil {
		return nil, nil
	}
	doc, err := o.load(ctx, req.ValuesSource)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load values: %w", err)
	}
	values, err := doc.Component()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: decode values: %w", err)
	}
	return &values, nil
}

func (o *Orchestrator) load(ctx context.Context, src metadata.Source) (metadata.Document, error) {
	if o.loader == nil {
		return metadata.Document{}, errors.New("orchestrator: loader is nil")
	}
	return o.loader.Load(ctx, src)
}

func (o *Orchestrator) resolveAdapter(format string, raw []byte) (FormatAdapter, error) {
	if o.adapters == nil {
		return nil, errors.New("orchestrator: adapter registry is nil")
	}
	if format = strings.TrimSpace(format); format != "" {
		return o.adapters.Get(format)
	}

	matches := o.adapters.Detect(raw)
	switch len(matches) {
	case 0:
		return o.adapters.Get(MetadataAdapterName)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple adapters matched payload (%s), specify format", adapterNames(matches))
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	renderer, err := o.registry.Resolve(name, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve renderer: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = metadataloader.New(metadata.NewLoaderOptions())
	}
	if o.adapters == nil {
		o.adapters = NewAdapterRegistry()
		o.adapters.MustRegister(metadataAdapter{})
		o.adapters.MustRegister(pkgopenapi.NewAdapter(
			openapiparser.New(pkgopenapi.ParserOptions{}),
			pkgopenapi.WithLabeler(pkgopenapi.DefaultLabeler),
		))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
