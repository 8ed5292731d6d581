package connectorform

import (
	metadataloader "github.com/goliatone/go-connectorform/internal/metadata/loader"
	openapiparser "github.com/goliatone/go-connectorform/internal/openapi/parser"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-connectorform/pkg/openapi"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...metadata.LoaderOption) metadata.Loader {
	return metadataloader.New(metadata.NewLoaderOptions(options...))
}

// NewOpenAPIParser constructs an OpenAPI parser backed by the internal
// implementation.
func NewOpenAPIParser(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return openapiparser.New(options)
}

// NewOpenAPIAdapter wires the internal parser into an adapter that turns
// component schemas into connector metadata.
func NewOpenAPIAdapter(parserOptions pkgopenapi.ParserOptions, options ...pkgopenapi.Option) *pkgopenapi.Adapter {
	return pkgopenapi.NewAdapter(openapiparser.New(parserOptions), options...)
}
