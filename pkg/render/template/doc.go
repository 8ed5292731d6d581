// Package template defines the template engine seam renderers depend on.
// gotemplate provides the pongo2-backed implementation.
package template
