package ports

import (
	"atlasdash/internal/trace"
)

// Renderer is the rendering surface the panels publish figures to. The
// production adapter hands figures to the page-side plotting library;
// tests bind a recording stub.
//
// Render must be idempotent under repeated calls with identical input:
// a container's previous traces are replaced, never appended to.
type Renderer interface {
	Render(container string, fig trace.Figure) error
}
