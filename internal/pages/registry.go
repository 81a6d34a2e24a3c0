// Package pages is the gateway's static replacement for the reference
// implementation's dynamic per-route module import: Go cannot construct a
// page from a URI at runtime the way Python's importlib can, so routes are
// registered here at init time instead.
package pages

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"ovos-htmx-gui-gateway/internal/gui"
)

// Factory builds a fresh PageManager for one instance of a page.
type Factory func() (*gui.PageManager, error)

// Registry maps a page URI to the factory that builds it, deduplicating
// concurrent builds of the same URI through singleflight — several GUI
// events can race to insert the same page while the bus client's connect
// handshake is still replaying backlog.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	group     singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates uri with factory. Call during startup before the bus
// client begins dispatching.
func (r *Registry) Register(uri string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[uri] = factory
}

// Build constructs the page registered for uri.
func (r *Registry) Build(uri string) (*gui.PageManager, error) {
	v, err, _ := r.group.Do(uri, func() (interface{}, error) {
		r.mu.RLock()
		factory, ok := r.factories[uri]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("pages: no page registered for uri %q", uri)
		}
		return factory()
	})
	if err != nil {
		return nil, err
	}
	return v.(*gui.PageManager), nil
}
