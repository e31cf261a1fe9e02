package dom

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{ElementNode, "Element"},
		{TextNode, "Text"},
		{FragmentNode, "Fragment"},
		{NodeType(0), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("NodeType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateElement(t *testing.T) {
	doc := NewDocument()

	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{"div", "div", false},
		{"DIV", "div", false},
		{"my-widget", "my-widget", false},
		{"h1", "h1", false},
		{"", "", true},
		{"1abc", "", true},
		{"di v", "", true},
		{"<div>", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			el, err := doc.CreateElement(tt.tag)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCharacter) {
					t.Fatalf("err = %v, want ErrInvalidCharacter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if el.Tag() != tt.want {
				t.Errorf("Tag() = %q, want %q", el.Tag(), tt.want)
			}
		})
	}
}

func TestWrapSame(t *testing.T) {
	doc := NewDocument()
	el, _ := doc.CreateElement("div")
	other, _ := doc.CreateElement("div")

	if !doc.Wrap(el.HTMLNode()).Same(el) {
		t.Error("Wrap should return a handle to the same node")
	}
	if el.Same(other) {
		t.Error("distinct elements should not be the same")
	}
	if doc.Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
	var a, b *Element
	if !a.Same(b) || a.Same(el) || el.Same(nil) {
		t.Error("nil handles are only the same as nil")
	}
}

// createDiscarded builds n elements inside a fragment that is dropped on
// return, counting each handle as it is finalized.
func createDiscarded(doc *Document, n int, collected *atomic.Int32) {
	frag := doc.CreateFragment()
	for i := 0; i < n; i++ {
		el, _ := doc.CreateElement("p")
		runtime.SetFinalizer(el, func(*Element) { collected.Add(1) })
		frag.AppendChild(el)
	}
}

func waitCollected(t *testing.T, collected *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for collected.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("collected %d of %d discarded elements", collected.Load(), want)
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDocumentDoesNotRetainElements(t *testing.T) {
	doc := NewDocument()
	var collected atomic.Int32

	createDiscarded(doc, 100, &collected)
	waitCollected(t, &collected, 100)
	runtime.KeepAlive(doc)
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el, _ := doc.CreateElement("div")

	el.SetAttribute("data-x", "1")
	el.SetAttribute("Title", "hello")
	el.SetAttribute("data-x", "2")

	if v, ok := el.Attribute("data-x"); !ok || v != "2" {
		t.Errorf("data-x = %q,%v, want 2,true", v, ok)
	}
	if v, _ := el.Attribute("title"); v != "hello" {
		t.Errorf("title = %q, want hello", v)
	}
	attrs := el.Attributes()
	if len(attrs) != 2 || attrs[0].Key != "data-x" || attrs[1].Key != "title" {
		t.Errorf("Attributes() = %v, want data-x then title", attrs)
	}

	el.RemoveAttribute("data-x")
	if _, ok := el.Attribute("data-x"); ok {
		t.Error("data-x should be removed")
	}
}

func TestCapabilities(t *testing.T) {
	doc := NewDocument()

	tests := []struct {
		tag      string
		value    bool
		markup   bool
		disabled bool
	}{
		{"div", false, true, false},
		{"input", true, false, true},
		{"textarea", true, true, true},
		{"button", true, true, true},
		{"li", false, true, false},
		{"img", false, false, false},
		{"fieldset", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			el, _ := doc.CreateElement(tt.tag)
			if got := el.HasValueSlot(); got != tt.value {
				t.Errorf("HasValueSlot() = %v, want %v", got, tt.value)
			}
			if got := el.HasMarkupSlot(); got != tt.markup {
				t.Errorf("HasMarkupSlot() = %v, want %v", got, tt.markup)
			}
			if got := el.HasDisabledSlot(); got != tt.disabled {
				t.Errorf("HasDisabledSlot() = %v, want %v", got, tt.disabled)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	doc := NewDocument()

	input, _ := doc.CreateElement("input")
	if err := input.SetValue("abc"); err != nil {
		t.Fatal(err)
	}
	if input.Value() != "abc" {
		t.Errorf("input Value() = %q, want abc", input.Value())
	}

	area, _ := doc.CreateElement("textarea")
	area.SetValue("one")
	area.SetValue("two")
	if area.Value() != "two" || len(area.ChildNodes()) != 1 {
		t.Errorf("textarea Value() = %q with %d children", area.Value(), len(area.ChildNodes()))
	}

	sel, _ := doc.CreateElement("select")
	sel.SetInnerHTML(`<option value="a">A</option><option>b</option>`)
	if sel.Value() != "a" {
		t.Errorf("select default Value() = %q, want a", sel.Value())
	}
	sel.SetValue("b")
	if sel.Value() != "b" {
		t.Errorf("select Value() = %q, want b", sel.Value())
	}

	div, _ := doc.CreateElement("div")
	if err := div.SetValue("x"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("div SetValue err = %v, want ErrNotSupported", err)
	}
}

func TestSetInnerHTML(t *testing.T) {
	doc := NewDocument()
	div, _ := doc.CreateElement("div")
	div.AppendChild(doc.CreateTextNode("old"))

	if err := div.SetInnerHTML("a<b>bold</b>&nbsp;c"); err != nil {
		t.Fatal(err)
	}
	if got := div.TextContent(); got != "abold\u00a0c" {
		t.Errorf("TextContent() = %q", got)
	}
	children := div.Children()
	if len(children) != 1 || children[0].Tag() != "b" {
		t.Fatalf("Children() = %v, want one <b>", children)
	}
	if !children[0].Parent().Same(div) {
		t.Error("parsed child should report div as parent")
	}

	img, _ := doc.CreateElement("img")
	if err := img.SetInnerHTML("x"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("img SetInnerHTML err = %v, want ErrNotSupported", err)
	}
}

func TestSetDisabled(t *testing.T) {
	doc := NewDocument()
	btn, _ := doc.CreateElement("button")

	btn.SetDisabled(true)
	if !btn.Disabled() {
		t.Error("button should be disabled")
	}
	btn.SetDisabled(false)
	if btn.Disabled() {
		t.Error("button should be enabled")
	}

	div, _ := doc.CreateElement("div")
	if err := div.SetDisabled(true); !errors.Is(err, ErrNotSupported) {
		t.Errorf("div SetDisabled err = %v, want ErrNotSupported", err)
	}
}

func TestAppendChildMoves(t *testing.T) {
	doc := NewDocument()
	a, _ := doc.CreateElement("div")
	b, _ := doc.CreateElement("div")
	child, _ := doc.CreateElement("span")

	a.AppendChild(child)
	b.AppendChild(child)

	if len(a.Children()) != 0 {
		t.Error("child should have moved out of a")
	}
	if len(b.Children()) != 1 || !child.Parent().Same(b) {
		t.Error("child should be owned by b")
	}
}

func TestAppendChildRejectsCycle(t *testing.T) {
	doc := NewDocument()
	outer, _ := doc.CreateElement("div")
	inner, _ := doc.CreateElement("div")
	outer.AppendChild(inner)

	if err := inner.AppendChild(outer); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("err = %v, want ErrHierarchyRequest", err)
	}
	if err := outer.AppendChild(outer); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("self append err = %v, want ErrHierarchyRequest", err)
	}
}

func TestFragmentAppendMovesChildren(t *testing.T) {
	doc := NewDocument()
	frag := doc.CreateFragment()
	n1, _ := doc.CreateElement("p")
	n2, _ := doc.CreateElement("p")
	frag.AppendChild(n1)
	frag.AppendChild(n2)

	if frag.Len() != 2 {
		t.Fatalf("frag.Len() = %d, want 2", frag.Len())
	}
	if n1.Parent() != nil {
		t.Error("fragment children should have no parent element")
	}

	target, _ := doc.CreateElement("div")
	target.AppendChild(frag)

	if frag.Len() != 0 {
		t.Errorf("frag.Len() = %d after append, want 0", frag.Len())
	}
	got := target.Children()
	if len(got) != 2 || !got[0].Same(n1) || !got[1].Same(n2) {
		t.Errorf("target children = %v, want n1, n2", got)
	}
}

func TestClassList(t *testing.T) {
	doc := NewDocument()
	el, _ := doc.CreateElement("div")
	cl := el.ClassList()

	cl.Add("a", "b", "a", "", "bad token")
	if el.ClassName() != "a b" {
		t.Errorf("ClassName() = %q, want %q", el.ClassName(), "a b")
	}
	if !cl.Contains("b") || cl.Contains("c") {
		t.Error("Contains mismatch")
	}
	cl.Remove("a")
	if el.ClassName() != "b" {
		t.Errorf("ClassName() = %q after remove, want b", el.ClassName())
	}

	el.SetClassName("x y")
	if cl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cl.Len())
	}
}
