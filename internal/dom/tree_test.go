package dom

import "testing"

func TestAppendChildAndSerialize(t *testing.T) {
	root := NewElement("div", "root")
	child := NewElement("span", "greeting")
	child.SetText("hi")
	root.AppendChild(child)

	got := root.Serialize()
	want := `<div id="root"><span id="greeting">hi</span></div>`
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSetTextClearsChildren(t *testing.T) {
	root := NewElement("div", "root")
	root.AppendChild(NewElement("span", "a"))
	root.SetText("plain")

	if got := root.InnerHTML(); got != "plain" {
		t.Fatalf("InnerHTML() = %q, want %q", got, "plain")
	}
}

func TestFindByID(t *testing.T) {
	root := NewElement("div", "root")
	inner := NewElement("div", "inner")
	target := NewElement("span", "target")
	inner.AppendChild(target)
	root.AppendChild(inner)

	found := root.FindByID("target")
	if found != target {
		t.Fatalf("FindByID did not return the expected element")
	}
	if root.FindByID("missing") != nil {
		t.Fatalf("FindByID should return nil for an absent id")
	}
}

func TestDetach(t *testing.T) {
	root := NewElement("div", "root")
	child := NewElement("span", "child")
	root.AppendChild(child)
	child.Detach()

	if root.FindByID("child") != nil {
		t.Fatalf("expected child to be detached from root")
	}
}

func TestSelfClosingElement(t *testing.T) {
	br := NewElement("br", "")
	got := br.OuterHTML()
	if got != "<br>" {
		t.Fatalf("OuterHTML() = %q, want %q", got, "<br>")
	}
}

func TestSetAttributesEscapesValues(t *testing.T) {
	el := NewElement("div", "x")
	el.SetAttributes(map[string]string{"title": `a"b`})
	got := el.OuterHTML()
	want := `<div id="x" title="a&#34;b"></div>`
	if got != want {
		t.Fatalf("OuterHTML() = %q, want %q", got, want)
	}
}
