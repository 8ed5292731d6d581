package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-connectorform/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-connectorform/pkg/openapi"
)

const authenticatorDocument = `
openapi: 3.0.3
info:
  title: Authenticators
  version: 1.0.0
paths: {}
components:
  schemas:
    Base:
      type: object
      required: [ClientId]
      properties:
        ClientId:
          type: string
          x-display-name: Client ID
          x-display-order: 1
    OpenIDConnectAuthenticator:
      title: OpenID Connect
      description: Sign in with an OIDC provider
      allOf:
        - $ref: '#/components/schemas/Base'
      properties:
        ClientSecret:
          type: string
          title: Client secret
          x-display-order: 2
          x-confidential: true
        IsBasicAuthEnabled:
          type: boolean
          x-display-name: Use basic auth
          x-display-order: 3
          x-sub-properties: [BasicAuthRealm]
        BasicAuthRealm:
          type: string
          x-display-name: Realm
          x-display-order: 4
          pattern: '[a-z]+'
        responseMode:
          type: string
          x-display-name: Response mode
          x-display-order: 5
          enum: [query, form_post]
          default: query
        maxAge:
          type: integer
          x-display-order: 6
        internalOnly:
          type: string
`

func TestComponentNames(t *testing.T) {
	names, err := New(pkgopenapi.ParserOptions{}).ComponentNames(context.Background(), []byte(authenticatorDocument))
	if err != nil {
		t.Fatalf("component names: %v", err)
	}
	if diff := cmp.Diff([]string{"Base", "OpenIDConnectAuthenticator"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentSchemaMergesAllOf(t *testing.T) {
	schema, err := New(pkgopenapi.ParserOptions{}).ComponentSchema(context.Background(), []byte(authenticatorDocument), "OpenIDConnectAuthenticator")
	if err != nil {
		t.Fatalf("component schema: %v", err)
	}
	if _, ok := schema.Properties["ClientId"]; !ok {
		t.Fatalf("allOf properties should be merged: %v", schema.Properties)
	}
	if diff := cmp.Diff([]string{"ClientId"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if got := schema.Properties["IsBasicAuthEnabled"].Type; got != "boolean" {
		t.Fatalf("unexpected type %q", got)
	}

	_, err = New(pkgopenapi.ParserOptions{}).ComponentSchema(context.Background(), []byte(authenticatorDocument), "Missing")
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestAdapterBuildsMetadataFromDocument(t *testing.T) {
	adapter := pkgopenapi.NewAdapter(New(pkgopenapi.ParserOptions{}))
	if !adapter.Detect([]byte(authenticatorDocument)) {
		t.Fatalf("document should be detected as OpenAPI")
	}

	meta, err := adapter.Metadata(context.Background(), []byte(authenticatorDocument), "OpenIDConnectAuthenticator")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	want := []metadata.PropertyMetadata{
		{
			Key:          "BasicAuthRealm",
			DisplayName:  "Realm",
			DisplayOrder: 4,
			Type:         "STRING",
			Regex:        "[a-z]+",
		},
		{Key: "ClientId", DisplayName: "Client ID", DisplayOrder: 1, Type: "STRING", IsMandatory: true},
		{Key: "ClientSecret", DisplayName: "Client secret", DisplayOrder: 2, Type: "STRING", IsConfidential: true},
		{Key: "IsBasicAuthEnabled", DisplayName: "Use basic auth", DisplayOrder: 3, Type: "BOOLEAN"},
		{Key: "internalOnly", Type: "STRING"},
		{Key: "maxAge", DisplayOrder: 6, Type: "INTEGER"},
		{
			Key:          "responseMode",
			DisplayName:  "Response mode",
			DisplayOrder: 5,
			Type:         "STRING",
			Options:      []string{"query", "form_post"},
			DefaultValue: "query",
		},
	}
	want[3].SubProperties = []metadata.PropertyMetadata{want[0]}
	want = want[1:]

	if diff := cmp.Diff(want, meta.Properties); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}

	wantAttrs := map[string]any{
		"name":        "OpenIDConnectAuthenticator",
		"displayName": "OpenID Connect",
		"description": "Sign in with an OIDC provider",
	}
	if diff := cmp.Diff(wantAttrs, meta.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}
