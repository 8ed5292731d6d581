package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	connectorform "github.com/goliatone/go-connectorform"
	"github.com/goliatone/go-connectorform/pkg/form"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/orchestrator"
	"github.com/goliatone/go-connectorform/pkg/render"
)

const snapshotRendererName = "fields-snapshot"

// snapshotRenderer writes the collected fields as JSON so renderer tests can
// pin the field tree without going through templates.
type snapshotRenderer struct {
	path string
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return "application/json"
}

func (r *snapshotRenderer) Render(_ context.Context, f *form.Form, _ render.RenderOptions) ([]byte, error) {
	payload, err := json.MarshalIndent(map[string]any{
		"fields":           f.Fields(),
		"customProperties": f.CustomProperties(),
		"values":           f.Values(),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	var (
		metadataPath = flag.String("metadata", "pkg/orchestrator/testdata/authenticator.metadata.json", "metadata or OpenAPI document path")
		valuesPath   = flag.String("values", "pkg/orchestrator/testdata/authenticator.values.yaml", "initial values path")
		schemaName   = flag.String("schema", "", "component schema for OpenAPI documents")
		outputPath   = flag.String("output", "pkg/orchestrator/testdata/authenticator.fields.json", "output path for the serialized fields")
	)
	flag.Parse()

	registry := render.NewRegistry()
	registry.MustRegister(&snapshotRenderer{path: *outputPath})

	orch := orchestrator.New(
		orchestrator.WithLoader(connectorform.NewLoader()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{
		MetadataSource: metadata.SourceFromFile(*metadataPath),
		ValuesSource:   metadata.SourceFromFile(*valuesPath),
		SchemaName:     *schemaName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to snapshot fields: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote fields snapshot to %s\n", *outputPath)
}
