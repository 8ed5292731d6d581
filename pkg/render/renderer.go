package render

import (
	"context"

	"github.com/goliatone/go-connectorform/pkg/form"
)

// Renderer turns a mounted form into a byte representation (HTML, terminal
// transcript, JSON payload).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
