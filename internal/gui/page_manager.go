package gui

import (
	"fmt"
	"sync"

	"ovos-htmx-gui-gateway/internal/dom"
)

// PageManager owns one page's document tree, its data bindings, and the
// callbacks/dialogs it has registered. It is built once per page instance
// by a pages.Registry factory and then mutated in place as bus events
// arrive.
type PageManager struct {
	mu        sync.RWMutex
	namespace string
	pageID    string
	uri       string
	root      *dom.Element
	bindings  *BindingTable
	sessionData map[string]any
}

// NewPageManager constructs a manager around an already-built document
// root. Factories in internal/pages call this after assembling the tree.
func NewPageManager(root *dom.Element) *PageManager {
	return &PageManager{
		root:        root,
		bindings:    NewBindingTable(),
		sessionData: make(map[string]any),
	}
}

// Namespace, PageID, URI identify the manager's position in the coordinator.
func (p *PageManager) Namespace() string { p.mu.RLock(); defer p.mu.RUnlock(); return p.namespace }
func (p *PageManager) PageID() string    { p.mu.RLock(); defer p.mu.RUnlock(); return p.pageID }
func (p *PageManager) URI() string       { p.mu.RLock(); defer p.mu.RUnlock(); return p.uri }

// Root returns the page's document root element.
func (p *PageManager) Root() *dom.Element {
	return p.root
}

// Bindings returns the page's binding table.
func (p *PageManager) Bindings() *BindingTable {
	return p.bindings
}

// UpdateData applies a property update to the element bound to that
// property name, setting the element's text to format(value). With a nil
// format, a string value is used as is and any other value leaves the
// element unchanged.
func (p *PageManager) UpdateData(property string, value any, format func(any) string) (*dom.Element, error) {
	p.mu.RLock()
	param, ok := p.bindings.Parameters[property]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gui: page %s has no binding for property %q", p.pageID, property)
	}
	target := p.root.FindByID(param.Target)
	if target == nil {
		return nil, fmt.Errorf("gui: page %s missing bound element #%s", p.pageID, param.Target)
	}
	text := value
	if format != nil {
		target.SetText(format(value))
	} else if s, ok := text.(string); ok {
		target.SetText(s)
	}
	return target, nil
}

// UpdateState stores session-scoped key/value state, independent of the
// document tree (used for values a page's callbacks need but never render
// directly).
func (p *PageManager) UpdateState(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionData[key] = value
}

// State retrieves previously stored session state.
func (p *PageManager) State(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.sessionData[key]
	return v, ok
}

// DeleteState removes previously stored session state.
func (p *PageManager) DeleteState(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessionData, key)
}

// TriggerCallback invokes the handler registered for id with the given
// parameters, as dispatched by the server's local/global event endpoints.
func (p *PageManager) TriggerCallback(id string, params map[string]string) error {
	p.mu.RLock()
	cb, ok := p.bindings.Callbacks[id]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("gui: page %s has no callback %q", p.pageID, id)
	}
	if cb.Handler == nil {
		return nil
	}
	return cb.Handler(params)
}
