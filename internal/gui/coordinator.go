package gui

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// Renderer is the subset of render.Renderer the coordinator drives. Defined
// here (rather than imported) to avoid a gui<->render import cycle; render
// implements this interface.
type Renderer interface {
	Show(namespace, pageID string) error
	Close(namespace, pageID string) error
	OpenDialog(namespace, pageID string) error
	CloseDialog(namespace, pageID string) error
}

// PageArg describes one page to insert via InsertPages.
type PageArg struct {
	PageID string // empty means auto-generate
	URI    string
	Position int
}

// Coordinator tracks namespaces and their page groups, mirroring the
// reference GUI manager's activation stack: the namespace at the front of
// the stack owns the screen.
type Coordinator struct {
	mu         sync.Mutex
	namespaces []string // front = active
	groups     map[string]*PageGroup
	managers   map[string]*PageManager // "namespace/pageID" -> manager
	renderer   Renderer
	builder    PageBuilder
}

// PageBuilder constructs a PageManager for a given URI. internal/pages
// implements this as a static registry lookup.
type PageBuilder interface {
	Build(uri string) (*PageManager, error)
}

// NewCoordinator returns a coordinator with no namespaces registered yet.
func NewCoordinator(renderer Renderer, builder PageBuilder) *Coordinator {
	return &Coordinator{
		groups:   make(map[string]*PageGroup),
		managers: make(map[string]*PageManager),
		renderer: renderer,
		builder:  builder,
	}
}

func managerKey(namespace, pageID string) string {
	return namespace + "/" + pageID
}

// ActivateNamespace moves namespace to the front of the stack, creating its
// page group if this is the first time it is seen.
func (c *Coordinator) ActivateNamespace(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureGroupLocked(namespace)
	c.removeNamespaceLocked(namespace)
	c.namespaces = append([]string{namespace}, c.namespaces...)
}

// DeactivateNamespace pops namespace from the front of the stack (if it is
// there) and reinserts it one position down, mirroring PageGroup's
// rotate-one-down deactivation so the previous namespace regains focus.
func (c *Coordinator) DeactivateNamespace(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := indexOfStr(c.namespaces, namespace)
	if idx < 0 {
		return
	}
	c.namespaces = append(c.namespaces[:idx], c.namespaces[idx+1:]...)
	pos := 1
	if pos > len(c.namespaces) {
		pos = len(c.namespaces)
	}
	out := make([]string, 0, len(c.namespaces)+1)
	out = append(out, c.namespaces[:pos]...)
	out = append(out, namespace)
	out = append(out, c.namespaces[pos:]...)
	c.namespaces = out
}

// ActiveNamespace returns the namespace currently at the front of the
// stack, or "" if none is active.
func (c *Coordinator) ActiveNamespace() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.namespaces) == 0 {
		return ""
	}
	return c.namespaces[0]
}

func (c *Coordinator) ensureGroupLocked(namespace string) *PageGroup {
	g, ok := c.groups[namespace]
	if !ok {
		g = NewPageGroup()
		c.groups[namespace] = g
	}
	return g
}

func (c *Coordinator) removeNamespaceLocked(namespace string) {
	idx := indexOfStr(c.namespaces, namespace)
	if idx < 0 {
		return
	}
	c.namespaces = append(c.namespaces[:idx], c.namespaces[idx+1:]...)
}

// InsertPages builds and inserts pages into namespace's page group, in
// reverse order like the reference implementation (so that, inserted at the
// same position, the first arg ends up frontmost). If namespace was not yet
// active and becomes the sole active namespace, page 0 is shown
// automatically.
func (c *Coordinator) InsertPages(namespace string, args []PageArg) ([]string, error) {
	c.mu.Lock()
	group := c.ensureGroupLocked(namespace)
	wasOnlyActive := len(c.namespaces) == 0
	c.mu.Unlock()

	ids := make([]string, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		a := args[i]
		pageID := a.PageID
		if pageID == "" {
			pageID = randomPageID()
		}
		pm, err := c.builder.Build(a.URI)
		if err != nil {
			return nil, fmt.Errorf("gui: build page %q: %w", a.URI, err)
		}
		pm.namespace = namespace
		pm.pageID = pageID
		pm.uri = a.URI

		c.mu.Lock()
		group.InsertPage(pageID, a.Position)
		c.managers[managerKey(namespace, pageID)] = pm
		c.mu.Unlock()
		ids[i] = pageID
	}

	if wasOnlyActive && group.Len() > 0 {
		c.ActivateNamespace(namespace)
		first := group.GetPageID(0)
		if err := group.ActivatePage(0); err != nil {
			return ids, err
		}
		if c.renderer != nil {
			return ids, c.renderer.Show(namespace, first)
		}
	}
	return ids, nil
}

// RemovePages deletes the named pages from namespace's group, closing the
// active one first if it is among them.
func (c *Coordinator) RemovePages(namespace string, pageIDs []string) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}

	active := group.GetActivePageID()
	for _, pid := range pageIDs {
		if pid == active && c.renderer != nil {
			if err := c.renderer.Close(namespace, pid); err != nil {
				return err
			}
		}
		c.mu.Lock()
		group.RemovePage(pid)
		delete(c.managers, managerKey(namespace, pid))
		c.mu.Unlock()
	}
	return nil
}

// MovePages relocates the named pages within namespace's group.
func (c *Coordinator) MovePages(namespace string, pageIDs []string, position int) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	c.mu.Lock()
	for _, pid := range pageIDs {
		group.MovePage(pid, position)
	}
	c.mu.Unlock()
	return nil
}

// ShowIndex activates the page at index within namespace's page group and
// asks the renderer to display it, for bus events (page_gained_focus) that
// address a page positionally rather than by id.
func (c *Coordinator) ShowIndex(namespace string, index int) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	pageID := group.GetPageID(index)
	if pageID == "" {
		return fmt.Errorf("gui: no page at index %d in namespace %q", index, namespace)
	}
	return c.Show(namespace, pageID)
}

// UpdateState stores an event-driven value against namespace's active page,
// for bus events that carry no bound interaction parameter but still need
// to be visible to the page's callbacks (e.g. via PageManager.State).
func (c *Coordinator) UpdateState(namespace, key string) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	pageID := group.GetActivePageID()
	if pageID == "" {
		return nil
	}
	pm, ok := c.Manager(namespace, pageID)
	if !ok {
		return nil
	}
	pm.UpdateState(key, true)
	return nil
}

// DeleteState removes previously stored state from namespace's active page.
func (c *Coordinator) DeleteState(namespace, key string) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	pageID := group.GetActivePageID()
	if pageID == "" {
		return nil
	}
	pm, ok := c.Manager(namespace, pageID)
	if !ok {
		return nil
	}
	pm.DeleteState(key)
	return nil
}

// InsertNamespace creates namespace's page group if this is the first time
// it is seen, without activating it — used when the bus announces a new
// skill session before it has inserted any pages of its own.
func (c *Coordinator) InsertNamespace(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureGroupLocked(namespace)
}

// RemoveNamespace discards namespace's page group, its managers, and its
// place in the activation stack, used when the bus reports a skill session
// was torn down.
func (c *Coordinator) RemoveNamespace(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	group, ok := c.groups[namespace]
	if !ok {
		return
	}
	for _, pageID := range group.PageIDs() {
		delete(c.managers, managerKey(namespace, pageID))
	}
	delete(c.groups, namespace)
	c.removeNamespaceLocked(namespace)
}

// Show activates pageID within namespace and asks the renderer to display it.
func (c *Coordinator) Show(namespace, pageID string) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	idx := -1
	for i, id := range group.PageIDs() {
		if id == pageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("gui: unknown page %q in namespace %q", pageID, namespace)
	}
	if err := group.ActivatePage(idx); err != nil {
		return err
	}
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Show(namespace, pageID)
}

// Close deactivates the currently active page of namespace.
func (c *Coordinator) Close(namespace string) error {
	c.mu.Lock()
	group, ok := c.groups[namespace]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gui: unknown namespace %q", namespace)
	}
	active := group.GetActivePageID()
	group.DeactivatePage()
	if c.renderer == nil || active == "" {
		return nil
	}
	return c.renderer.Close(namespace, active)
}

// SetRenderer wires the renderer after construction, breaking the
// coordinator/renderer construction cycle (the renderer needs the
// coordinator to look up page managers; the coordinator needs the renderer
// to show/close pages).
func (c *Coordinator) SetRenderer(r Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderer = r
}

// Manager returns the PageManager registered for (namespace, pageID).
func (c *Coordinator) Manager(namespace, pageID string) (*PageManager, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pm, ok := c.managers[managerKey(namespace, pageID)]
	return pm, ok
}

// Group returns the page group for namespace, creating it if absent.
func (c *Coordinator) Group(namespace string) *PageGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureGroupLocked(namespace)
}

func indexOfStr(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func randomPageID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
