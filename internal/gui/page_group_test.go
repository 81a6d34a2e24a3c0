package gui

import "testing"

func TestPageGroupInsertAndActivate(t *testing.T) {
	g := NewPageGroup()
	g.InsertPage("a", 0)
	g.InsertPage("b", 1)
	g.InsertPage("c", 0)

	if got := g.PageIDs(); !equalStrSlice(got, []string{"c", "a", "b"}) {
		t.Fatalf("PageIDs() = %v", got)
	}

	if err := g.ActivatePage(1); err != nil {
		t.Fatalf("ActivatePage: %v", err)
	}
	if got := g.GetActivePageID(); got != "a" {
		t.Fatalf("GetActivePageID() = %q, want %q", got, "a")
	}
}

func TestPageGroupDeactivateRotatesDown(t *testing.T) {
	g := NewPageGroup()
	g.InsertPage("a", 0)
	g.InsertPage("b", 1)
	g.InsertPage("c", 2)

	_ = g.ActivatePage(0) // a active
	_ = g.ActivatePage(2) // c active, stack: [c, a]

	if got := g.GetActivePageID(); got != "c" {
		t.Fatalf("active = %q, want c", got)
	}

	g.DeactivatePage()
	if got := g.GetActivePageID(); got != "a" {
		t.Fatalf("after deactivate active = %q, want a", got)
	}
}

func TestPageGroupRemoveAdjustsActiveIndex(t *testing.T) {
	g := NewPageGroup()
	g.InsertPage("a", 0)
	g.InsertPage("b", 1)
	g.InsertPage("c", 2)
	_ = g.ActivatePage(2) // c

	g.RemovePage("a")
	if got := g.GetActivePageID(); got != "c" {
		t.Fatalf("active = %q, want c after removing unrelated page", got)
	}
	if got := g.PageIDs(); !equalStrSlice(got, []string{"b", "c"}) {
		t.Fatalf("PageIDs() = %v", got)
	}
}

func TestPageGroupInsertClampsPosition(t *testing.T) {
	g := NewPageGroup()
	g.InsertPage("a", 99)
	g.InsertPage("b", -5)
	if got := g.PageIDs(); !equalStrSlice(got, []string{"b", "a"}) {
		t.Fatalf("PageIDs() = %v", got)
	}
}

func equalStrSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
