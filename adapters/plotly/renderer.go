package plotly

import (
	"sync"

	"atlasdash/internal/trace"
	"atlasdash/ports"
)

// PageRenderer is the production rendering surface: it holds the latest
// figure per container and hands them to the page, which feeds them to the
// plotting library loaded globally there. Render replaces a container's
// figure wholesale, so repeated renders with identical input are idempotent
// and traces never accumulate.
type PageRenderer struct {
	mu      sync.RWMutex
	figures map[string]trace.Figure
}

var _ ports.Renderer = (*PageRenderer)(nil)

// New creates an empty renderer
func New() *PageRenderer {
	return &PageRenderer{figures: map[string]trace.Figure{}}
}

// Render publishes the figure for a container, replacing any prior one
func (r *PageRenderer) Render(container string, fig trace.Figure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.figures[container] = fig
	return nil
}

// Figure returns the last rendered figure for a container
func (r *PageRenderer) Figure(container string) (trace.Figure, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fig, ok := r.figures[container]
	return fig, ok
}

// Containers lists containers with a rendered figure
func (r *PageRenderer) Containers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.figures))
	for name := range r.figures {
		out = append(out, name)
	}
	return out
}
