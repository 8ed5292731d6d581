package vanilla

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-connectorform/pkg/form"
	theme "github.com/goliatone/go-theme"
)

// StylesheetAssetKey is the theme asset key resolved for the stylesheet link.
const StylesheetAssetKey = "vanilla.stylesheet"

func descriptionID(key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	return "cf-" + strings.TrimSpace(key) + "-description"
}

// layoutClasses maps a layout onto grid utility classes, one per breakpoint.
func layoutClasses(layout form.Layout) []string {
	classes := []string{
		"cf-span-m-" + strconv.Itoa(layout.Span.Mobile),
		"cf-span-t-" + strconv.Itoa(layout.Span.Tablet),
		"cf-span-c-" + strconv.Itoa(layout.Span.Computer),
	}
	if layout.Indented() {
		classes = append(classes,
			"cf-offset-m-"+strconv.Itoa(layout.Offset.Mobile),
			"cf-offset-t-"+strconv.Itoa(layout.Offset.Tablet),
			"cf-offset-c-"+strconv.Itoa(layout.Offset.Computer),
		)
	}
	return classes
}

func themeView(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
}

func themePartials(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil || len(cfg.Partials) == 0 {
		return nil
	}
	out := make(map[string]string, len(cfg.Partials))
	for key, value := range cfg.Partials {
		out[key] = value
	}
	return out
}

func themeStylesheet(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return strings.TrimSpace(cfg.AssetURL(StylesheetAssetKey))
}

// cssVarsStyle renders CSS custom properties as an inline style, sorted by
// name. Names without the leading "--" get one.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(vars[key]))
		b.WriteByte(';')
	}
	return b.String()
}
