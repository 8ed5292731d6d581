package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// LoadMetadata reads a metadata fixture (JSON or YAML). Fails the test on
// error.
func LoadMetadata(t *testing.T, path string) metadata.ComponentMetadata {
	t.Helper()

	meta, err := LoadMetadataFromPath(path)
	if err != nil {
		t.Fatalf("load metadata: %v", err)
	}
	return meta
}

// LoadMetadataFromPath returns the decoded metadata without requiring
// testing.T, for setup helpers.
func LoadMetadataFromPath(path string) (metadata.ComponentMetadata, error) {
	data, err := readFixture(path)
	if err != nil {
		return metadata.ComponentMetadata{}, err
	}
	meta, err := metadata.DecodeMetadata(data)
	if err != nil {
		return metadata.ComponentMetadata{}, fmt.Errorf("testsupport: decode metadata: %w", err)
	}
	return meta, nil
}

// LoadComponent reads an initial values fixture (JSON or YAML).
func LoadComponent(t *testing.T, path string) *metadata.Component {
	t.Helper()

	data, err := readFixture(path)
	if err != nil {
		t.Fatalf("load component: %v", err)
	}
	component, err := metadata.DecodeComponent(data)
	if err != nil {
		t.Fatalf("decode component: %v", err)
	}
	return &component
}

func readFixture(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return data, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
