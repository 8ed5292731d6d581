package connectorform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/orchestrator"
	"github.com/goliatone/go-connectorform/pkg/render"
)

// RenderOptions describes per-request overrides such as the form action,
// server-side validation errors and hidden fields.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request for callers that only import the root
// package.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the metadata and initial values, builds the form, and
// renders it with the named renderer. A nil values source renders an empty
// document.
func GenerateHTML(ctx context.Context, metadataSource, valuesSource metadata.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		MetadataSource: metadataSource,
		ValuesSource:   valuesSource,
		Renderer:       rendererName,
	})
}

// GenerateHTMLFromMetadata renders pre-decoded metadata and values, bypassing
// the loader stage.
func GenerateHTMLFromMetadata(ctx context.Context, meta metadata.ComponentMetadata, values *metadata.Component, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Metadata: &meta,
		Values:   values,
		Renderer: rendererName,
	})
}

// Submit builds the form for the given sources and converts values into the
// payload a connector backend expects.
func Submit(ctx context.Context, metadataSource, valuesSource metadata.Source, values form.FormValues, options ...orchestrator.Option) (metadata.Component, error) {
	gen := orchestrator.New(options...)
	return gen.Submit(ctx, orchestrator.Request{
		MetadataSource: metadataSource,
		ValuesSource:   valuesSource,
	}, values)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifests selects among the given manifests, defaulting to
// defaultTheme/defaultVariant.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemeSelector(orchestrator.NewManifestSelector(defaultTheme, defaultVariant, manifests...))
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
