package render

import (
	"testing"
	"time"

	"ovos-htmx-gui-gateway/internal/dom"
	"ovos-htmx-gui-gateway/internal/eventbus"
	"ovos-htmx-gui-gateway/internal/gui"
)

type fakeCoordinator struct {
	managers map[string]*gui.PageManager
}

func (f *fakeCoordinator) Manager(namespace, pageID string) (*gui.PageManager, bool) {
	pm, ok := f.managers[namespace+"/"+pageID]
	return pm, ok
}

func TestRendererShowPublishesRootFrame(t *testing.T) {
	root := dom.NewElement("div", "page")
	root.SetText("hello")
	pm := gui.NewPageManager(root)

	coord := &fakeCoordinator{managers: map[string]*gui.PageManager{"ns/p1": pm}}
	bus := eventbus.New[Frame]()
	r := New(coord, bus)
	defer r.Close()

	frames, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	if err := r.Show("ns", "p1"); err != nil {
		t.Fatalf("Show: %v", err)
	}

	select {
	case f := <-frames:
		if f.Name != "root" {
			t.Fatalf("frame name = %q, want root", f.Name)
		}
		if f.Data != `<div id="page">hello</div>` {
			t.Fatalf("frame data = %q", f.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}

	if got := r.ActiveRoute(); got.Namespace != "ns" || got.PageID != "p1" {
		t.Fatalf("ActiveRoute() = %+v", got)
	}
}

func TestUpdateElementGatedByActiveRoute(t *testing.T) {
	root := dom.NewElement("div", "page")
	pm := gui.NewPageManager(root)
	coord := &fakeCoordinator{managers: map[string]*gui.PageManager{"ns/p1": pm}}
	bus := eventbus.New[Frame]()
	r := New(coord, bus)
	defer r.Close()

	frames, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	el := dom.NewElement("span", "widget")
	el.SetText("v1")

	// Not yet shown: update should be suppressed.
	if err := r.UpdateElement("ns", "p1", "widget", el); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}
	select {
	case f := <-frames:
		t.Fatalf("unexpected frame before route was shown: %+v", f)
	case <-time.After(50 * time.Millisecond):
	}

	if err := r.Show("ns", "p1"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	<-frames // drain the root frame from Show

	if err := r.UpdateElement("ns", "p1", "widget", el); err != nil {
		t.Fatalf("UpdateElement: %v", err)
	}
	select {
	case f := <-frames:
		if f.Name != "widget" {
			t.Fatalf("frame name = %q, want widget", f.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for gated update")
	}
}
