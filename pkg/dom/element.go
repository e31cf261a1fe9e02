package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// voidElements cannot have children and therefore have no markup slot.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// valueElements expose a settable value.
var valueElements = map[string]bool{
	"button":   true,
	"data":     true,
	"input":    true,
	"meter":    true,
	"option":   true,
	"output":   true,
	"param":    true,
	"progress": true,
	"select":   true,
	"textarea": true,
}

// placeholderElements reflect the placeholder hint.
var placeholderElements = map[string]bool{
	"input":    true,
	"textarea": true,
}

// disableableElements reflect the disabled state.
var disableableElements = map[string]bool{
	"button":   true,
	"fieldset": true,
	"input":    true,
	"optgroup": true,
	"option":   true,
	"select":   true,
	"textarea": true,
}

// IsVoid reports whether tag is a void element.
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// Element is a handle to an element node. Several handles may refer to the
// same node; use Same to compare them.
type Element struct {
	doc *Document
	n   *html.Node
}

// Same reports whether e and other refer to the same node. Two nil handles
// are the same.
func (e *Element) Same(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.n == other.n
}

// NodeType implements Node.
func (e *Element) NodeType() NodeType { return ElementNode }

// HTMLNode implements Node.
func (e *Element) HTMLNode() *html.Node { return e.n }

// Document returns the owner document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lowercase tag name.
func (e *Element) Tag() string { return e.n.Data }

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.Attribute("id")
	return v
}

// SetID sets the id attribute.
func (e *Element) SetID(id string) { e.SetAttribute("id", id) }

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets or replaces an attribute. Names are lowercased.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i := range e.n.Attr {
		if e.n.Attr[i].Namespace == "" && e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			return
		}
	}
}

// Attributes returns a copy of the attributes in insertion order.
func (e *Element) Attributes() []html.Attribute {
	out := make([]html.Attribute, len(e.n.Attr))
	copy(out, e.n.Attr)
	return out
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	v, _ := e.Attribute("class")
	return v
}

// SetClassName overwrites the class attribute.
func (e *Element) SetClassName(value string) { e.SetAttribute("class", value) }

// ClassList returns the token view of the class attribute.
func (e *Element) ClassList() *ClassList { return &ClassList{el: e} }

// Style returns the inline style surface.
func (e *Element) Style() *Style { return &Style{el: e} }

// HasValueSlot reports whether the element exposes a settable value.
func (e *Element) HasValueSlot() bool { return valueElements[e.n.Data] }

// HasMarkupSlot reports whether the element can hold inner markup.
func (e *Element) HasMarkupSlot() bool { return !voidElements[e.n.Data] }

// HasPlaceholderSlot reports whether the element shows a placeholder hint.
func (e *Element) HasPlaceholderSlot() bool { return placeholderElements[e.n.Data] }

// HasDisabledSlot reports whether the element reflects a disabled state.
func (e *Element) HasDisabledSlot() bool { return disableableElements[e.n.Data] }

// Value returns the current value of a form control.
func (e *Element) Value() string {
	switch e.n.Data {
	case "textarea":
		return e.TextContent()
	case "select":
		var first string
		found := false
		for _, opt := range e.descendants("option") {
			if !found {
				first, found = opt.optionValue(), true
			}
			if _, ok := opt.Attribute("selected"); ok {
				return opt.optionValue()
			}
		}
		return first
	default:
		v, _ := e.Attribute("value")
		return v
	}
}

// SetValue assigns the value of a form control.
func (e *Element) SetValue(value string) error {
	if !e.HasValueSlot() {
		return fmt.Errorf("%w: <%s> has no value", ErrNotSupported, e.n.Data)
	}
	switch e.n.Data {
	case "textarea":
		e.removeChildren()
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	case "select":
		for _, opt := range e.descendants("option") {
			if opt.optionValue() == value {
				opt.SetAttribute("selected", "")
			} else {
				opt.RemoveAttribute("selected")
			}
		}
	default:
		e.SetAttribute("value", value)
	}
	return nil
}

// SetInnerHTML replaces the children with the parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	if !e.HasMarkupSlot() {
		return fmt.Errorf("%w: <%s> cannot hold markup", ErrNotSupported, e.n.Data)
	}
	context := &html.Node{
		Type:      html.ElementNode,
		DataAtom:  e.n.DataAtom,
		Data:      e.n.Data,
		Namespace: e.n.Namespace,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("dom: parse inner markup: %w", err)
	}
	e.removeChildren()
	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	return nil
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool {
	_, ok := e.Attribute("disabled")
	return ok
}

// SetDisabled toggles the disabled attribute on controls that support it.
func (e *Element) SetDisabled(disabled bool) error {
	if !e.HasDisabledSlot() {
		return fmt.Errorf("%w: <%s> cannot be disabled", ErrNotSupported, e.n.Data)
	}
	if disabled {
		e.SetAttribute("disabled", "")
	} else {
		e.RemoveAttribute("disabled")
	}
	return nil
}

// AppendChild moves child to the end of the element's children.
func (e *Element) AppendChild(child Node) error {
	return appendNode(e.n, child)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	return elementChildren(e.doc, e.n)
}

// ChildNodes returns every direct child, elements and text.
func (e *Element) ChildNodes() []Node {
	var out []Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			out = append(out, e.doc.wrap(c))
		case html.TextNode:
			out = append(out, &Text{n: c})
		}
	}
	return out
}

// Parent returns the parent element, or nil when detached or held by a
// fragment.
func (e *Element) Parent() *Element {
	return e.doc.Wrap(e.n.Parent)
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

func (e *Element) removeChildren() {
	for c := e.n.FirstChild; c != nil; c = e.n.FirstChild {
		e.n.RemoveChild(c)
	}
}

func (e *Element) descendants(tag string) []*Element {
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, e.doc.wrap(c))
			}
			walk(c)
		}
	}
	walk(e.n)
	return out
}

func (e *Element) optionValue() string {
	if v, ok := e.Attribute("value"); ok {
		return v
	}
	return strings.TrimSpace(e.TextContent())
}
