// Package render defines the renderer contract and registry for turning a
// run's element output into bytes (HTML, JSON, terminal text). Rendering is
// a pure read of the page: reconciliation has already happened by the time a
// renderer sees it.
package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-liveform/pkg/runtime"
)

// Options carry per-request rendering data.
type Options struct {
	// Theme is the resolved go-theme configuration: tokens become CSS
	// custom properties, partials override templates. Nil renders with the
	// renderer's defaults.
	Theme *theme.RendererConfig
}

// Renderer converts a page into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page *runtime.Page, options Options) ([]byte, error)
}

// Registry stores renderers by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Names lists the registered renderer names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
