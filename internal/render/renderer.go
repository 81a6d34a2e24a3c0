// Package render turns GUI coordinator state into outbound SSE frames. It
// owns the root document, gates which page fragments are allowed onto the
// wire (only the currently shown route), and serialises updates through a
// single-consumer queue so concurrent bus events never interleave two half
// -written frames.
package render

import (
	"fmt"
	"strings"
	"sync"

	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/eventbus"
	"ovos-htmx-gui-gateway/internal/gui"
	"ovos-htmx-gui-gateway/internal/util"
)

// Frame is one outbound SSE event: Name becomes the `event:` line (or is
// omitted when empty) and Data becomes the one-line `data:` payload.
type Frame struct {
	Name string
	Data string
}

// ActiveRoute identifies the page currently allowed to emit updates.
type ActiveRoute struct {
	Namespace string
	PageID    string
}

// Coordinator is the subset of gui.Coordinator the renderer needs. Kept as
// an interface to avoid import cycles and to ease testing.
type Coordinator interface {
	Manager(namespace, pageID string) (*gui.PageManager, bool)
}

// Renderer owns the served document and decides which mutations produce an
// outbound frame.
type Renderer struct {
	mu          sync.Mutex
	root        *dom.Element
	dialogRoot  *dom.Element
	active      ActiveRoute
	coordinator Coordinator
	out         *eventbus.Bus[Frame]
	transitions chan func()
	done        chan struct{}
}

// New constructs a renderer with an empty root and dialog root, wired to
// publish frames on bus.
func New(coordinator Coordinator, bus *eventbus.Bus[Frame]) *Renderer {
	root := dom.NewElement("div", "root")
	root.SetAttributes(map[string]string{"sse-swap": "root", "hx-swap": "innerHTML"})

	dialogRoot := dom.NewElement("dialog", "dialog-root")
	dialogRoot.SetAttributes(map[string]string{"sse-swap": "dialog", "hx-swap": "outerHTML"})

	r := &Renderer{
		root:        root,
		dialogRoot:  dialogRoot,
		coordinator: coordinator,
		out:         bus,
		transitions: make(chan func(), 64),
		done:        make(chan struct{}),
	}
	go r.loop()
	return r
}

// Close stops the renderer's transition worker.
func (r *Renderer) Close() {
	close(r.done)
}

func (r *Renderer) loop() {
	for {
		select {
		case fn := <-r.transitions:
			fn()
		case <-r.done:
			return
		}
	}
}

// enqueue serialises fn onto the single transition worker and waits for it
// to run, so callers observe a consistent view of the document afterward.
func (r *Renderer) enqueue(fn func() error) error {
	errCh := make(chan error, 1)
	select {
	case r.transitions <- func() { errCh <- fn() }:
	case <-r.done:
		return fmt.Errorf("render: renderer closed")
	}
	return <-errCh
}

// Show makes (namespace, pageID) the active route and emits its document as
// the root fragment.
func (r *Renderer) Show(namespace, pageID string) error {
	return r.enqueue(func() error {
		pm, ok := r.coordinator.Manager(namespace, pageID)
		if !ok {
			return fmt.Errorf("render: no page manager for %s/%s", namespace, pageID)
		}
		r.mu.Lock()
		r.active = ActiveRoute{Namespace: namespace, PageID: pageID}
		r.mu.Unlock()
		r.publish("root", pm.Root().Serialize())
		return nil
	})
}

// Close clears the active route if it currently points at (namespace,
// pageID), leaving the last frame on screen untouched (the client keeps
// displaying it until the next Show).
func (r *Renderer) Close(namespace, pageID string) error {
	return r.enqueue(func() error {
		r.mu.Lock()
		if r.active.Namespace == namespace && r.active.PageID == pageID {
			r.active = ActiveRoute{}
		}
		r.mu.Unlock()
		return nil
	})
}

// ActiveRoute returns the currently shown route.
func (r *Renderer) ActiveRoute() ActiveRoute {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// OpenDialog publishes the whole document of (namespace, pageID) as the
// dialog fragment; no individual registered dialog is selected.
func (r *Renderer) OpenDialog(namespace, pageID string) error {
	return r.enqueue(func() error {
		pm, ok := r.coordinator.Manager(namespace, pageID)
		if !ok {
			return fmt.Errorf("render: no page manager for %s/%s", namespace, pageID)
		}
		r.publish("dialog", pm.Root().Serialize())
		return nil
	})
}

// CloseDialog clears the dialog fragment.
func (r *Renderer) CloseDialog(namespace, pageID string) error {
	return r.enqueue(func() error {
		r.publish("dialog", "<dialog id=\"dialog-root\"></dialog>")
		return nil
	})
}

// UpdateElement re-renders a single element's outer HTML under the given
// SSE event name, but only if namespace/pageID still matches the active
// route — this is the gating invariant that keeps stale pages from writing
// to a screen the user has since navigated away from.
func (r *Renderer) UpdateElement(namespace, pageID, sseName string, el *dom.Element) error {
	return r.enqueue(func() error {
		r.mu.Lock()
		active := r.active
		r.mu.Unlock()
		if active.Namespace != namespace || active.PageID != pageID {
			return nil
		}
		r.publish(sseName, el.Serialize())
		return nil
	})
}

// UpdateStatus always reaches the wire regardless of the active route,
// since the status namespace is rendered as an overlay independent of page
// navigation.
func (r *Renderer) UpdateStatus(sseName string, el *dom.Element) error {
	return r.enqueue(func() error {
		r.publish(sseName, el.Serialize())
		return nil
	})
}

func (r *Renderer) publish(name, data string) {
	data = strings.ReplaceAll(data, "\n", "")
	r.out.Publish(Frame{Name: name, Data: data})
}

// StatusNamespace is the reserved namespace the coordinator must create at
// startup before any client connects.
const StatusNamespace = util.StatusNamespace
