package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
)

func oidcMetadata() []metadata.PropertyMetadata {
	return []metadata.PropertyMetadata{
		{Key: "ClientId", DisplayName: "Client ID", DisplayOrder: 1, Type: "STRING", IsMandatory: true},
		{Key: "ClientSecret", DisplayName: "Client secret", DisplayOrder: 2, Type: "STRING", IsConfidential: true},
		{Key: "internalOnly", DisplayName: "", DisplayOrder: 3, Type: "STRING"},
		{
			Key:          "IsBasicAuthEnabled",
			DisplayName:  "Use basic auth",
			DisplayOrder: 4,
			Type:         "BOOLEAN",
			SubProperties: []metadata.PropertyMetadata{
				{Key: "BasicAuthRealm", DisplayName: "Realm", DisplayOrder: 5, Type: "STRING"},
			},
		},
		{Key: "callbackUrl", DisplayName: "Callback URL", DisplayOrder: 6, Type: "URL"},
	}
}

func keys(fields []form.Field) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Key
	}
	return out
}

func TestRenderWithoutValuesRendersNothing(t *testing.T) {
	if fields := form.Render(oidcMetadata(), nil); fields != nil {
		t.Fatalf("expected no fields before values load, got %d", len(fields))
	}
}

func TestRenderSkipsFieldsWithoutDisplayName(t *testing.T) {
	values := &metadata.Component{Properties: []metadata.Property{{Key: "internalOnly", Value: "x"}}}

	fields := form.Render(oidcMetadata(), values)
	for _, field := range fields {
		if field.Key == "internalOnly" {
			t.Fatalf("field without display name rendered: %+v", field)
		}
	}

	want := []string{"ClientId", "ClientSecret", "IsBasicAuthEnabled", "BasicAuthRealm", "callbackUrl"}
	if diff := cmp.Diff(want, keys(fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderResolvesControlsAndValues(t *testing.T) {
	values := &metadata.Component{Properties: []metadata.Property{
		{Key: "ClientId", Value: "abc"},
		{Key: "IsBasicAuthEnabled", Value: "true"},
	}}

	fields := form.Render(oidcMetadata(), values)
	byKey := make(map[string]form.Field, len(fields))
	for _, field := range fields {
		byKey[field.Key] = field
	}

	if got := byKey["ClientSecret"].Control; got != form.ControlPassword {
		t.Fatalf("confidential string should render as password, got %s", got)
	}
	if got := byKey["callbackUrl"].Control; got != form.ControlURL {
		t.Fatalf("expected url control, got %s", got)
	}
	if got := byKey["ClientId"]; !got.HasValue || got.Value != "abc" || !got.Required {
		t.Fatalf("unexpected client id field: %+v", got)
	}
	if got := byKey["callbackUrl"]; got.HasValue {
		t.Fatalf("absent property should render without value: %+v", got)
	}

	parent := byKey["IsBasicAuthEnabled"]
	if parent.Control != form.ControlCheckbox || !parent.Listen || !parent.Checked() {
		t.Fatalf("unexpected parent field: %+v", parent)
	}

	child := byKey["BasicAuthRealm"]
	if child.Depth != 1 || child.Parent != "IsBasicAuthEnabled" || !child.Revealed {
		t.Fatalf("unexpected child field: %+v", child)
	}
	if !child.Layout.Indented() || child.Layout != form.NestedLayout {
		t.Fatalf("child should use nested layout: %+v", child.Layout)
	}
	if parent.Layout != form.TopLevelLayout || parent.Layout.Indented() {
		t.Fatalf("parent should use top level layout: %+v", parent.Layout)
	}
	if child.Listen {
		t.Fatalf("checkbox children should not listen unless they are parents")
	}
}

func TestRenderHidesChildrenOfUncheckedParent(t *testing.T) {
	values := &metadata.Component{Properties: []metadata.Property{{Key: "IsBasicAuthEnabled", Value: "false"}}}

	for _, field := range form.Render(oidcMetadata(), values) {
		if field.Key == "BasicAuthRealm" && field.Revealed {
			t.Fatalf("child of unchecked parent should not be revealed")
		}
		if field.Key == "IsBasicAuthEnabled" && !field.Revealed {
			t.Fatalf("top level fields are always revealed")
		}
	}
}

func TestRenderRadioChildrenListen(t *testing.T) {
	list := []metadata.PropertyMetadata{
		{
			Key:          "responseMode",
			DisplayName:  "Response mode",
			DisplayOrder: 1,
			Type:         "RADIO",
			Options:      []string{"query", "form_post"},
			SubProperties: []metadata.PropertyMetadata{
				{Key: "formPostTarget", DisplayName: "Target", DisplayOrder: 2},
				{Key: "formPostTimeout", DisplayName: "Timeout", DisplayOrder: 3, Type: "INTEGER"},
			},
		},
	}

	fields := form.Render(list, &metadata.Component{})
	if len(fields) != 3 {
		t.Fatalf("expected parent and two children, got %d", len(fields))
	}
	if fields[0].Control != form.ControlRadio || !fields[0].Listen {
		t.Fatalf("radio parent should listen: %+v", fields[0])
	}
	for _, child := range fields[1:] {
		if !child.Listen || child.Parent != "responseMode" || child.Depth != 1 {
			t.Fatalf("radio child should listen and track the parent: %+v", child)
		}
	}
	if fields[2].Control != form.ControlNumber {
		t.Fatalf("integer child should render as number, got %s", fields[2].Control)
	}
}

func TestRenderLeafToggleWithoutSubPropertiesDoesNotListen(t *testing.T) {
	list := []metadata.PropertyMetadata{{Key: "enabled", DisplayName: "Enabled", Type: "BOOLEAN"}}
	fields := form.Render(list, &metadata.Component{})
	if len(fields) != 1 || fields[0].Listen {
		t.Fatalf("plain checkbox should render as a leaf: %+v", fields)
	}
}

func TestRenderSortsFlattenedListByOwnDisplayOrder(t *testing.T) {
	// Parent/child orders interleave with the sibling at 2: the child lands
	// after the sibling because the sort is global, not per level.
	list := []metadata.PropertyMetadata{
		{
			Key:          "parent",
			DisplayName:  "Parent",
			DisplayOrder: 1,
			Type:         "CHECKBOX",
			SubProperties: []metadata.PropertyMetadata{
				{Key: "child", DisplayName: "Child", DisplayOrder: 3},
				{Key: "child-first", DisplayName: "Child first", DisplayOrder: 0},
			},
		},
		{Key: "sibling", DisplayName: "Sibling", DisplayOrder: 2},
		{Key: "tie", DisplayName: "Tie", DisplayOrder: 3},
	}

	fields := form.Render(list, &metadata.Component{})

	want := []string{"child-first", "parent", "sibling", "child", "tie"}
	if diff := cmp.Diff(want, keys(fields)); diff != "" {
		t.Fatalf("sorted order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(fields); i++ {
		if fields[i-1].Order > fields[i].Order {
			t.Fatalf("display order decreases at %d: %d > %d", i, fields[i-1].Order, fields[i].Order)
		}
	}
}

func TestResolveControl(t *testing.T) {
	cases := []struct {
		node metadata.PropertyMetadata
		want form.ControlType
	}{
		{metadata.PropertyMetadata{Type: "boolean"}, form.ControlCheckbox},
		{metadata.PropertyMetadata{Type: "CHECKBOX"}, form.ControlCheckbox},
		{metadata.PropertyMetadata{Type: "RADIO"}, form.ControlRadio},
		{metadata.PropertyMetadata{Type: "PASSWORD"}, form.ControlPassword},
		{metadata.PropertyMetadata{Type: "STRING", IsConfidential: true}, form.ControlPassword},
		{metadata.PropertyMetadata{Type: "STRING", Options: []string{"a"}}, form.ControlDropdown},
		{metadata.PropertyMetadata{Type: "OPTIONS"}, form.ControlDropdown},
		{metadata.PropertyMetadata{Type: "NUMBER"}, form.ControlNumber},
		{metadata.PropertyMetadata{Type: "URL"}, form.ControlURL},
		{metadata.PropertyMetadata{Type: "mystery"}, form.ControlText},
		{metadata.PropertyMetadata{}, form.ControlText},
	}
	for _, tc := range cases {
		if got := form.ResolveControl(tc.node); got != tc.want {
			t.Fatalf("ResolveControl(%+v) = %s, want %s", tc.node, got, tc.want)
		}
	}
}
