package vanilla_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/render"
	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla"
	theme "github.com/goliatone/go-theme"
)

func oidcForm(t *testing.T, basicAuth string, options ...form.Option) *form.Form {
	t.Helper()
	meta := metadata.ComponentMetadata{
		Properties: []metadata.PropertyMetadata{
			{Key: "ClientId", DisplayName: "Client ID", DisplayOrder: 1, Type: "STRING", IsMandatory: true, Description: "Issued by the <b>provider</b><script>alert(1)</script>"},
			{Key: "ClientSecret", DisplayName: "Client secret", DisplayOrder: 2, Type: "STRING", IsConfidential: true},
			{
				Key:          "IsBasicAuthEnabled",
				DisplayName:  "Use basic auth",
				DisplayOrder: 3,
				Type:         "BOOLEAN",
				SubProperties: []metadata.PropertyMetadata{
					{Key: "BasicAuthRealm", DisplayName: "Realm", DisplayOrder: 4, Type: "STRING"},
				},
			},
			{Key: "ResponseMode", DisplayName: "Response mode", DisplayOrder: 5, Type: "OPTIONS", Options: []string{"query", "form_post"}},
		},
	}
	initial := &metadata.Component{Properties: []metadata.Property{
		{Key: "ClientId", Value: "abc"},
		{Key: "IsBasicAuthEnabled", Value: basicAuth},
		{Key: "ResponseMode", Value: "form_post"},
		{Key: "scope", Value: "openid"},
	}}
	return form.New(meta, initial, options...)
}

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func mustContain(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func TestRendererRendersFieldsInOrder(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{
		Action: "/connectors/oidc",
		TestID: "oidc-form",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`<form class="cf-form" method="post" action="/connectors/oidc" data-testid="oidc-form" novalidate>`,
		`<label for="cf-ClientId">Client ID<span class="cf-required">*</span></label>`,
		`value="abc" required aria-required="true"`,
		`type="password" id="cf-ClientSecret" name="ClientSecret"`,
		`name="IsBasicAuthEnabled" value="IsBasicAuthEnabled" class="cf-checkbox" data-cf-listen="change"`,
		`data-parent="IsBasicAuthEnabled" hidden>`,
		`<option value="form_post" selected>form_post</option>`,
		`<textarea id="cf-customProperties" name="customProperties" rows="3">scope=openid</textarea>`,
		`<button type="submit">Submit</button>`,
	)

	order := []string{`data-property="ClientId"`, `data-property="ClientSecret"`, `data-property="IsBasicAuthEnabled"`, `data-property="BasicAuthRealm"`, `data-property="ResponseMode"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(html, marker)
		if idx <= last {
			t.Fatalf("expected %s after previous field\n%s", marker, html)
		}
		last = idx
	}
}

func TestRendererRevealsChildrenOfCheckedParent(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), oidcForm(t, "true"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	mustContain(t, html,
		`class="cf-checkbox" checked data-cf-listen="change"`,
		`data-parent="IsBasicAuthEnabled">`,
		`cf-offset-c-1 cf-nested`,
	)
	if strings.Contains(html, `data-parent="IsBasicAuthEnabled" hidden`) {
		t.Fatalf("child of checked parent should not be hidden\n%s", html)
	}
}

func TestRendererSanitizesDescriptions(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script") {
		t.Fatalf("script tag survived sanitising\n%s", html)
	}
	mustContain(t, html,
		`<small class="cf-description" id="cf-ClientId-description">Issued by the <b>provider</b></small>`,
		`aria-describedby="cf-ClientId-description"`,
	)
}

func TestRendererAppliesOptions(t *testing.T) {
	out, err := newRenderer(t, vanilla.WithSubmitLabel("Save connector")).Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{
		Method:       "put",
		HiddenFields: map[string]string{"_csrf": "token"},
		Errors:       map[string][]string{"ClientId": {"Client ID is already in use"}, form.CustomPropertiesField: {"Unknown scope"}},
		FormErrors:   []string{"Connector rejected the configuration"},
		Theme: &theme.RendererConfig{
			Theme:    "acme",
			Variant:  "dark",
			CSSVars:  map[string]string{"--brand": "#123456", "radius": "4px"},
			Partials: map[string]string{"forms.input": "themes/acme/missing.tmpl"},
			AssetURL: func(key string) string { return "/assets/acme/" + key + ".css" },
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	mustContain(t, html,
		`<link rel="stylesheet" href="/assets/acme/vanilla.stylesheet.css">`,
		`method="post"`,
		`data-theme="acme" data-theme-variant="dark" style="--brand: #123456; --radius: 4px;"`,
		`<input type="hidden" name="_csrf" value="token">`,
		`<input type="hidden" name="_method" value="PUT">`,
		`<div class="cf-errors" role="alert">`,
		`<p>Connector rejected the configuration</p>`,
		`data-property="ClientId" data-component="text" data-validation-state="invalid">`,
		`aria-invalid="true"`,
		`<p class="cf-error">Client ID is already in use</p>`,
		`<p class="cf-error">Unknown scope</p>`,
		`<button type="submit">Save connector</button>`,
	)
	if strings.Index(html, `name="_csrf"`) > strings.Index(html, `name="_method"`) {
		t.Fatalf("hidden fields should be sorted by name\n%s", html)
	}
}

func TestRendererHonoursDisabledSubmitButton(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), oidcForm(t, "false", form.WithSubmitButton(false)), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), `<button type="submit">`) {
		t.Fatalf("submit button should be omitted")
	}
}

func TestRendererWithoutValuesRendersNothing(t *testing.T) {
	f := form.New(metadata.ComponentMetadata{Properties: []metadata.PropertyMetadata{{Key: "a", DisplayName: "A"}}}, nil)
	out, err := newRenderer(t).Render(context.Background(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %q", out)
	}

	if _, err := newRenderer(t).Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil form")
	}
}

func TestRendererRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t).Render(ctx, oidcForm(t, "false"), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRendererInlineStylesheet(t *testing.T) {
	out, err := newRenderer(t, vanilla.WithInlineStylesheet()).Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out), "<style>", ".cf-grid")
}

func TestRendererEmitsRevealRuntimeForToggleParents(t *testing.T) {
	out, err := newRenderer(t, vanilla.WithInlineRuntime()).Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(out),
		`data-cf-listen="change"`,
		`data-parent="IsBasicAuthEnabled"`,
		"<script>",
		`[data-parent="`,
	)

	linked, err := newRenderer(t, vanilla.WithInlineRuntime(), vanilla.WithRuntimeURL("/assets/connectorform.js")).
		Render(context.Background(), oidcForm(t, "false"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, string(linked), `<script src="/assets/connectorform.js" defer></script>`)
	if strings.Contains(string(linked), "<script>") {
		t.Fatalf("runtime url should replace the inline script")
	}

	flat := form.New(metadata.ComponentMetadata{Properties: []metadata.PropertyMetadata{
		{Key: "ClientId", DisplayName: "Client ID", Type: "STRING"},
	}}, &metadata.Component{})
	plain, err := newRenderer(t, vanilla.WithInlineRuntime()).Render(context.Background(), flat, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(plain), "<script") {
		t.Fatalf("forms without toggle parents need no runtime")
	}
}

func TestRuntimeScriptIsEmbedded(t *testing.T) {
	data, err := fs.ReadFile(vanilla.RuntimeFS(), vanilla.RuntimeScriptName)
	if err != nil {
		t.Fatalf("read runtime: %v", err)
	}
	mustContain(t, string(data), `data-cf-listen="change"`, "data-parent", "hidden")
}

func TestRendererWithGoTemplateEngine(t *testing.T) {
	ctx := context.Background()
	want, err := newRenderer(t).Render(ctx, oidcForm(t, "true"), render.RenderOptions{Action: "/save"})
	if err != nil {
		t.Fatalf("render builtin: %v", err)
	}
	got, err := newRenderer(t, vanilla.WithGoTemplateEngine()).Render(ctx, oidcForm(t, "true"), render.RenderOptions{Action: "/save"})
	if err != nil {
		t.Fatalf("render go-template: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("engines disagree\nbuiltin:\n%s\ngo-template:\n%s", want, got)
	}
}
