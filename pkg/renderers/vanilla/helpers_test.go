package vanilla

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/form"
)

func TestCSSVarsStyle(t *testing.T) {
	got := cssVarsStyle(map[string]string{"--brand": " #123456 ", "gap": "1rem", " ": "skip"})
	if got != "--brand: #123456; --gap: 1rem;" {
		t.Fatalf("unexpected style %q", got)
	}
	if cssVarsStyle(nil) != "" {
		t.Fatalf("expected empty style")
	}
}

func TestLayoutClasses(t *testing.T) {
	if diff := cmp.Diff([]string{"cf-span-m-16", "cf-span-t-16", "cf-span-c-8"}, layoutClasses(form.TopLevelLayout)); diff != "" {
		t.Fatalf("top level classes mismatch (-want +got):\n%s", diff)
	}
	want := []string{"cf-span-m-14", "cf-span-t-14", "cf-span-c-7", "cf-offset-m-2", "cf-offset-t-2", "cf-offset-c-1"}
	if diff := cmp.Diff(want, layoutClasses(form.NestedLayout)); diff != "" {
		t.Fatalf("nested classes mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeText(t *testing.T) {
	if got := sanitizeText(`  <em>Realm</em> <img src=x onerror=alert(1)>`); got != "<em>Realm</em>" {
		t.Fatalf("unexpected sanitised text %q", got)
	}
	if sanitizeText("   ") != "" {
		t.Fatalf("expected blank input to stay blank")
	}
}
