package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/render"
)

func TestMapErrorPayloadResolvesPropertyKeys(t *testing.T) {
	list := []metadata.PropertyMetadata{
		{Key: "ClientId", DisplayName: "Client ID"},
		{
			Key:         "IsBasicAuthEnabled",
			DisplayName: "Basic auth",
			Type:        "BOOLEAN",
			SubProperties: []metadata.PropertyMetadata{
				{Key: "BasicAuthRealm", DisplayName: "Realm"},
			},
		},
	}
	submitted := metadata.Component{Properties: []metadata.Property{
		{Key: "ClientId", Value: "abc"},
		{Key: "IsBasicAuthEnabled", Value: true},
		{Key: "BasicAuthRealm", Value: ""},
		{Key: "scope", Value: "openid"},
	}}

	payload := map[string][]string{
		"ClientId":                        {"Client ID is required", " Client ID is required "},
		"/body/properties/BasicAuthRealm": {"Realm must not be empty"},
		"properties[1].value":             {"Basic auth unavailable"},
		"properties/3/value":              {"Unknown scope"},
		"properties/9/value":              {"Out of range"},
		"non_field_errors":                {"Connector rejected"},
		"request/body/unknown":            {"Should fall back to form errors"},
		"":                                {"  "},
	}

	mapped := render.MapErrorPayload(list, payload, render.WithSubmitted(submitted))

	wantFields := map[string][]string{
		"ClientId":                 {"Client ID is required"},
		"BasicAuthRealm":           {"Realm must not be empty"},
		"IsBasicAuthEnabled":       {"Basic auth unavailable"},
		form.CustomPropertiesField: {"Unknown scope"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Connector rejected", "Out of range", "Should fall back to form errors"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayloadOrderIsStable(t *testing.T) {
	list := []metadata.PropertyMetadata{{Key: "ClientId", DisplayName: "Client ID"}}
	payload := map[string][]string{
		"ClientId":             {"Too short"},
		"/properties/ClientId": {"Required"},
		"zeta":                 {"Last"},
		"alpha":                {"First"},
		"global":               {"Middle"},
	}

	want := render.ErrorMapping{
		Fields: map[string][]string{"ClientId": {"Required", "Too short"}},
		Form:   []string{"First", "Middle", "Last"},
	}
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(want, render.MapErrorPayload(list, payload)); diff != "" {
			t.Fatalf("run %d: mapping mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestMapErrorPayloadWithoutSubmissionTreatsIndexesAsFormErrors(t *testing.T) {
	list := []metadata.PropertyMetadata{{Key: "ClientId", DisplayName: "Client ID"}}
	mapped := render.MapErrorPayload(list, map[string][]string{"properties/0/value": {"bad"}})
	if mapped.Fields != nil {
		t.Fatalf("expected no field errors, got %v", mapped.Fields)
	}
	if diff := cmp.Diff([]string{"bad"}, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
