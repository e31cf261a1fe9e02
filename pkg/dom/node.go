package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <td>, etc.
	TextNode                         // Literal text
	FragmentNode                     // Offscreen container
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is implemented by *Element, *Text and *Fragment.
type Node interface {
	NodeType() NodeType
	// HTMLNode returns the backing node.
	HTMLNode() *html.Node
}

// Errors returned by tree primitives.
var (
	ErrInvalidCharacter = errors.New("dom: invalid character in tag name")
	ErrHierarchyRequest = errors.New("dom: node cannot be inserted at this point")
	ErrIndexSize        = errors.New("dom: index out of range")
	ErrNotSupported     = errors.New("dom: operation not supported by element")
)

// Document creates nodes. It holds no reference to the nodes it creates;
// a node lives as long as something points at it.
type Document struct{}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement creates an element with the given tag name. The name is
// lowercased; it must start with an ASCII letter and contain only letters,
// digits, '-', '_', '.' or ':'.
func (d *Document) CreateElement(tag string) (*Element, error) {
	name := strings.ToLower(tag)
	if !validTagName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCharacter, tag)
	}
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(name)),
		Data:     name,
	}
	return d.wrap(n), nil
}

// CreateTextNode creates a literal text node.
func (d *Document) CreateTextNode(data string) *Text {
	return &Text{n: &html.Node{Type: html.TextNode, Data: data}}
}

// CreateFragment creates an empty offscreen fragment.
func (d *Document) CreateFragment() *Fragment {
	return &Fragment{doc: d, n: &html.Node{Type: html.DocumentNode}}
}

// Wrap returns an Element handle for an element node. Handles are not
// unique: compare them with Element.Same. It returns nil for nil or
// non-element nodes.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return d.wrap(n)
}

func (d *Document) wrap(n *html.Node) *Element {
	return &Element{doc: d, n: n}
}

func validTagName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && c >= '0' && c <= '9':
		case i > 0 && (c == '-' || c == '_' || c == '.' || c == ':'):
		default:
			return false
		}
	}
	return true
}

// Text is a literal text node.
type Text struct {
	n *html.Node
}

// NodeType implements Node.
func (t *Text) NodeType() NodeType { return TextNode }

// HTMLNode implements Node.
func (t *Text) HTMLNode() *html.Node { return t.n }

// Data returns the text content.
func (t *Text) Data() string { return t.n.Data }

// Fragment is an offscreen container of nodes.
type Fragment struct {
	doc *Document
	n   *html.Node
}

// NodeType implements Node.
func (f *Fragment) NodeType() NodeType { return FragmentNode }

// HTMLNode implements Node.
func (f *Fragment) HTMLNode() *html.Node { return f.n }

// AppendChild moves child to the end of the fragment.
func (f *Fragment) AppendChild(child Node) error {
	return appendNode(f.n, child)
}

// Len returns the number of direct children.
func (f *Fragment) Len() int {
	count := 0
	for c := f.n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Children returns the element children in order.
func (f *Fragment) Children() []*Element {
	return elementChildren(f.doc, f.n)
}

// appendNode moves child under parent. Fragments are spliced: their
// children are moved and the fragment is left empty.
func appendNode(parent *html.Node, child Node) error {
	if child == nil {
		return nil
	}
	cn := child.HTMLNode()
	if cn == nil {
		return nil
	}

	if child.NodeType() == FragmentNode {
		for c := cn.FirstChild; c != nil; c = cn.FirstChild {
			cn.RemoveChild(c)
			parent.AppendChild(c)
		}
		return nil
	}

	for p := parent; p != nil; p = p.Parent {
		if p == cn {
			return ErrHierarchyRequest
		}
	}
	if cn.Parent != nil {
		cn.Parent.RemoveChild(cn)
	}
	parent.AppendChild(cn)
	return nil
}

func elementChildren(doc *Document, n *html.Node) []*Element {
	var out []*Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, doc.wrap(c))
		}
	}
	return out
}
