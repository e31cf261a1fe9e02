package render

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/vango-dev/elkit/pkg/dom"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables indented output, one block element per line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer writes dom nodes as HTML.
type Renderer struct {
	config Config
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders node to an HTML string.
func (r *Renderer) RenderToString(node dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams node to w.
func (r *Renderer) RenderToWriter(w io.Writer, node dom.Node) error {
	if node == nil {
		return nil
	}
	n := node.HTMLNode()
	if n == nil {
		return nil
	}
	return r.renderNode(w, n, 0)
}

// RenderInner renders the children of el without el itself.
func (r *Renderer) RenderInner(el *dom.Element) (string, error) {
	if el == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.renderChildren(&buf, el.HTMLNode(), 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, n *html.Node, depth int) error {
	switch n.Type {
	case html.ElementNode:
		return r.renderElement(w, n, depth)
	case html.TextNode:
		return r.renderText(w, n)
	case html.DocumentNode:
		return r.renderChildren(w, n, depth)
	case html.CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Data)
		return err
	default:
		return fmt.Errorf("render: unsupported node type %d", n.Type)
	}
}

func (r *Renderer) renderChildren(w io.Writer, n *html.Node, depth int) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := r.renderNode(w, c, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, n *html.Node, depth int) error {
	tag := n.Data

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if dom.IsVoid(tag) {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if isRawTextElement(tag) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				if _, err := io.WriteString(w, c.Data); err != nil {
					return err
				}
			}
		}
	} else {
		hasBlockChildren := hasElementChild(n) && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := r.renderNode(w, c, depth+1); err != nil {
				return err
			}
		}

		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, n *html.Node) error {
	_, err := io.WriteString(w, escapeHTML(n.Data))
	return err
}

// renderAttributes renders attributes in the order they were set.
func (r *Renderer) renderAttributes(w io.Writer, n *html.Node) error {
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if a.Val == "" && isBooleanAttr(key) {
			if _, err := fmt.Fprintf(w, " %s", key); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(a.Val)); err != nil {
			return err
		}
	}
	return nil
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
