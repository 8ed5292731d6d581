// Package orchestrator wires the load → form → render pipeline and the
// submit pipeline behind a single entry point. Every stage can be swapped
// through options; the defaults read local files, understand native metadata
// and OpenAPI documents, and render with the vanilla HTML renderer.
package orchestrator
