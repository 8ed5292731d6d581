package gotemplate

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-connectorform/pkg/render/template"
)

var _ template.TemplateRenderer = (*gotemplatepkg.Engine)(nil)

// NewLibrary builds the same template set on github.com/goliatone/go-template.
// It accepts the options New does, plus WithGoTemplateOptions. The returned
// engine also exposes go-template's pre and post render hooks.
func NewLibrary(options ...Option) (*gotemplatepkg.Engine, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}

	funcs := map[string]any{
		"control_id": pongo2.FilterFunction(filterControlID),
	}
	for name, fn := range cfg.templateFn {
		if name != "" && fn != nil {
			funcs[name] = fn
		}
	}

	libOptions := []gotemplatepkg.Option{
		gotemplatepkg.WithFS(cfg.templates),
		gotemplatepkg.WithExtension(cfg.extension),
		gotemplatepkg.WithTemplateFunc(funcs),
	}
	if len(cfg.globalData) > 0 {
		libOptions = append(libOptions, gotemplatepkg.WithGlobalData(cfg.globalData))
	}
	libOptions = append(libOptions, cfg.library...)

	engine, err := gotemplatepkg.NewRenderer(libOptions...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: build go-template engine: %w", err)
	}
	return engine, nil
}
