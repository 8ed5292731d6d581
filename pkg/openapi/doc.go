// Package openapi derives connector metadata from an OpenAPI component
// schema. The kin-openapi backed parser lives under internal/openapi so the
// dependency stays out of the public surface; this package only sees the
// neutral Schema tree it produces.
package openapi
