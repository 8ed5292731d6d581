package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/alert"
	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/orchestrator"
	"github.com/goliatone/go-connectorform/pkg/render"
	"github.com/goliatone/go-connectorform/pkg/testsupport"
)

func fileRequest() orchestrator.Request {
	return orchestrator.Request{
		MetadataSource: metadata.SourceFromFile(filepath.Join("testdata", "authenticator.metadata.json")),
		ValuesSource:   metadata.SourceFromFile(filepath.Join("testdata", "authenticator.values.yaml")),
	}
}

func TestOrchestrator_Integration_VanillaFromFiles(t *testing.T) {
	ctx := testsupport.Context()
	orch := orchestrator.New()

	output, err := orch.Generate(ctx, fileRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)

	for _, fragment := range []string{
		`name="ClientId"`,
		`value="abc"`,
		`type="password" id="cf-ClientSecret" name="ClientSecret"`,
		`data-parent="IsBasicAuthEnabled" hidden>`,
		`>scope=openid</textarea>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, html)
		}
	}
	if strings.Contains(html, "internalFlag") {
		t.Fatalf("properties without a display name must not render\n%s", html)
	}
	if diff := cmp.Diff([]string{"vanilla"}, orch.Renderers()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_Integration_UnmountedRendersNothing(t *testing.T) {
	req := fileRequest()
	req.ValuesSource = nil

	output, err := orchestrator.New().Generate(testsupport.Context(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(output) != 0 {
		t.Fatalf("expected empty output for an unmounted form, got %q", output)
	}
}

func TestOrchestrator_Integration_DetectsOpenAPI(t *testing.T) {
	renderer := &stubRenderer{}
	orch := orchestrator.New(orchestrator.WithRegistry(stubRegistry(renderer)))

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		MetadataSource: metadata.SourceFromFile(filepath.Join("testdata", "authenticator.openapi.yaml")),
		SchemaName:     "OpenIDConnectAuthenticator",
		Values:         &metadata.Component{},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([]string{"ClientId", "ClientSecret"}, renderer.keys()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if renderer.fields[1].Control != form.ControlPassword || !renderer.fields[0].Required {
		t.Fatalf("unexpected field mapping: %+v", renderer.fields)
	}
}

func TestOrchestrator_Integration_FormatErrors(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithRegistry(stubRegistry(&stubRenderer{})))
	req := fileRequest()
	req.Format = "graphql"
	if _, err := orch.Generate(testsupport.Context(), req); err == nil {
		t.Fatalf("expected unknown format error")
	}

	registry := orchestrator.NewAdapterRegistry()
	registry.MustRegister(greedyAdapter{name: "one"})
	registry.MustRegister(greedyAdapter{name: "two"})
	orch = orchestrator.New(
		orchestrator.WithRegistry(stubRegistry(&stubRenderer{})),
		orchestrator.WithAdapterRegistry(registry),
	)
	_, err := orch.Generate(testsupport.Context(), fileRequest())
	if err == nil || !strings.Contains(err.Error(), "multiple adapters") {
		t.Fatalf("expected ambiguous detection error, got %v", err)
	}
}

func TestOrchestrator_Integration_RendererFallback(t *testing.T) {
	renderer := &stubRenderer{}
	orch := orchestrator.New(orchestrator.WithRegistry(stubRegistry(renderer)))

	if _, err := orch.Generate(testsupport.Context(), fileRequest()); err != nil {
		t.Fatalf("generate with fallback renderer: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected the only registered renderer to be used")
	}

	req := fileRequest()
	req.Renderer = "preact"
	if _, err := orch.Generate(testsupport.Context(), req); err == nil {
		t.Fatalf("expected error for an explicit unknown renderer")
	}
}

func TestOrchestrator_Integration_SubmitReportsAlerts(t *testing.T) {
	recorder := &alert.Recorder{}
	orch := orchestrator.New(orchestrator.WithAlertSink(recorder))

	payload, err := orch.Submit(testsupport.Context(), fileRequest(), form.FormValues{
		"ClientId":                 form.Text("xyz"),
		"IsBasicAuthEnabled":       form.Selected("IsBasicAuthEnabled"),
		"BasicAuthRealm":           form.Text("corp"),
		form.CustomPropertiesField: form.Text("scope=openid"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := []metadata.Property{
		{Key: "ClientId", Value: "xyz"},
		{Key: "IsBasicAuthEnabled", Value: true},
		{Key: "BasicAuthRealm", Value: "corp"},
		{Key: "scope", Value: "openid"},
	}
	if diff := cmp.Diff(want, payload.Properties); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if payload.Attributes["authenticatorId"] != "auth-1" {
		t.Fatalf("initial attributes should survive: %v", payload.Attributes)
	}

	req := fileRequest()
	req.FormOptions = []form.Option{form.WithStrictCustomProperties()}
	_, err = orch.Submit(testsupport.Context(), req, form.FormValues{
		form.CustomPropertiesField: form.Text("novalue"),
	})
	var cpErr *form.CustomPropertyError
	if !errors.As(err, &cpErr) {
		t.Fatalf("expected custom property error, got %v", err)
	}

	levels := []alert.Level{}
	for _, a := range recorder.Alerts() {
		levels = append(levels, a.Level)
	}
	if diff := cmp.Diff([]alert.Level{alert.LevelSuccess, alert.LevelWarning}, levels); diff != "" {
		t.Fatalf("alert levels mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_Integration_SubmitWarnsAboutMalformedCustomProperties(t *testing.T) {
	recorder := &alert.Recorder{}
	var traced []form.EventKind
	orch := orchestrator.New(
		orchestrator.WithAlertSink(recorder),
		orchestrator.WithFormOptions(form.WithTrace(func(e form.Event) { traced = append(traced, e.Kind) })),
	)

	payload, err := orch.Submit(testsupport.Context(), fileRequest(), form.FormValues{
		form.CustomPropertiesField: form.Text("scope=openid, novalue"),
	})
	if err != nil {
		t.Fatalf("lenient submit should succeed: %v", err)
	}
	want := []metadata.Property{
		{Key: "scope", Value: "openid"},
		{Key: "novalue", Value: nil},
	}
	if diff := cmp.Diff(want, payload.Properties); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	alerts := recorder.Alerts()
	if len(alerts) != 2 {
		t.Fatalf("expected a warning and a success alert, got %+v", alerts)
	}
	if alerts[0].Level != alert.LevelWarning || !strings.Contains(alerts[0].Description, "novalue") {
		t.Fatalf("expected warning naming the segment, got %+v", alerts[0])
	}
	if alerts[1].Level != alert.LevelSuccess {
		t.Fatalf("expected success after the warning, got %+v", alerts[1])
	}

	found := false
	for _, kind := range traced {
		if kind == form.EventCustomPropertyIssue {
			found = true
		}
	}
	if !found {
		t.Fatalf("caller trace should still see the issue: %v", traced)
	}
}

func stubRegistry(renderers ...render.Renderer) *render.Registry {
	registry := render.NewRegistry()
	for _, renderer := range renderers {
		registry.MustRegister(renderer)
	}
	return registry
}

type stubRenderer struct {
	calls   int
	fields  []form.Field
	options render.RenderOptions
}

func (r *stubRenderer) Name() string {
	return "stub"
}

func (r *stubRenderer) ContentType() string {
	return "text/plain"
}

func (r *stubRenderer) Render(_ context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	r.calls++
	r.fields = f.Fields()
	r.options = opts
	return []byte(f.CustomProperties()), nil
}

func (r *stubRenderer) keys() []string {
	keys := make([]string, 0, len(r.fields))
	for _, field := range r.fields {
		keys = append(keys, field.Key)
	}
	return keys
}

type greedyAdapter struct {
	name string
}

func (a greedyAdapter) Name() string      { return a.name }
func (greedyAdapter) Detect([]byte) bool { return true }

func (greedyAdapter) Metadata(context.Context, []byte, string) (metadata.ComponentMetadata, error) {
	return metadata.ComponentMetadata{}, nil
}
