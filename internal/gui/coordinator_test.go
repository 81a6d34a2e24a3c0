package gui

import (
	"testing"

	"ovos-htmx-gui-gateway/internal/dom"
)

type stubBuilder struct{}

func (stubBuilder) Build(uri string) (*PageManager, error) {
	return NewPageManager(dom.NewElement("div", uri)), nil
}

type recordingRenderer struct {
	shown  []string
	closed []string
}

func (r *recordingRenderer) Show(namespace, pageID string) error {
	r.shown = append(r.shown, namespace+"/"+pageID)
	return nil
}
func (r *recordingRenderer) Close(namespace, pageID string) error {
	r.closed = append(r.closed, namespace+"/"+pageID)
	return nil
}
func (r *recordingRenderer) OpenDialog(string, string) error  { return nil }
func (r *recordingRenderer) CloseDialog(string, string) error { return nil }

func TestInsertPagesAutoShowsFirstPageOfOnlyActiveNamespace(t *testing.T) {
	renderer := &recordingRenderer{}
	c := NewCoordinator(renderer, stubBuilder{})

	ids, err := c.InsertPages("home", []PageArg{{URI: "home-screen", Position: 0}})
	if err != nil {
		t.Fatalf("InsertPages: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 page id, got %v", ids)
	}
	if len(renderer.shown) != 1 || renderer.shown[0] != "home/"+ids[0] {
		t.Fatalf("shown = %v, want home/%s", renderer.shown, ids[0])
	}
}

func TestShowIndexActivatesPageAtPosition(t *testing.T) {
	renderer := &recordingRenderer{}
	c := NewCoordinator(renderer, stubBuilder{})

	ids, err := c.InsertPages("home", []PageArg{
		{URI: "a", Position: 0},
		{URI: "b", Position: 1},
	})
	if err != nil {
		t.Fatalf("InsertPages: %v", err)
	}

	if err := c.ShowIndex("home", 1); err != nil {
		t.Fatalf("ShowIndex: %v", err)
	}
	want := "home/" + ids[1]
	if got := renderer.shown[len(renderer.shown)-1]; got != want {
		t.Fatalf("last shown = %q, want %q", got, want)
	}
}

func TestUpdateStateStoresAgainstActivePage(t *testing.T) {
	renderer := &recordingRenderer{}
	c := NewCoordinator(renderer, stubBuilder{})

	ids, err := c.InsertPages("home", []PageArg{{URI: "home-screen", Position: 0}})
	if err != nil {
		t.Fatalf("InsertPages: %v", err)
	}

	if err := c.UpdateState("home", "some.event"); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	pm, ok := c.Manager("home", ids[0])
	if !ok {
		t.Fatal("expected manager to exist")
	}
	if _, ok := pm.State("some.event"); !ok {
		t.Fatal("expected state to be recorded against the active page")
	}

	if err := c.DeleteState("home", "some.event"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, ok := pm.State("some.event"); ok {
		t.Fatal("expected state to be removed")
	}
}

func TestInsertAndRemoveNamespace(t *testing.T) {
	renderer := &recordingRenderer{}
	c := NewCoordinator(renderer, stubBuilder{})

	c.InsertNamespace("skill-x")
	if _, err := c.InsertPages("skill-x", nil); err != nil {
		t.Fatalf("InsertPages on pre-created namespace: %v", err)
	}

	c.RemoveNamespace("skill-x")
	if _, ok := c.Manager("skill-x", "anything"); ok {
		t.Fatal("expected managers to be gone after RemoveNamespace")
	}
	if err := c.UpdateState("skill-x", "x"); err == nil {
		t.Fatal("expected an error referencing the removed namespace")
	}
}

func TestRemovePagesClosesActivePage(t *testing.T) {
	renderer := &recordingRenderer{}
	c := NewCoordinator(renderer, stubBuilder{})

	ids, err := c.InsertPages("home", []PageArg{{URI: "home-screen", Position: 0}})
	if err != nil {
		t.Fatalf("InsertPages: %v", err)
	}

	if err := c.RemovePages("home", ids); err != nil {
		t.Fatalf("RemovePages: %v", err)
	}
	if len(renderer.closed) != 1 {
		t.Fatalf("expected active page to be closed on removal, got %v", renderer.closed)
	}
}
