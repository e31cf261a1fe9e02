package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/elkit/pkg/dom"
)

func mustElement(t *testing.T, doc *dom.Document, tag string) *dom.Element {
	t.Helper()
	el, err := doc.CreateElement(tag)
	if err != nil {
		t.Fatal(err)
	}
	return el
}

func TestRenderElement(t *testing.T) {
	doc := dom.NewDocument()

	tests := []struct {
		name  string
		build func() dom.Node
		want  string
	}{
		{
			name:  "empty div",
			build: func() dom.Node { return mustElement(t, doc, "div") },
			want:  "<div></div>",
		},
		{
			name: "attributes in order",
			build: func() dom.Node {
				el := mustElement(t, doc, "a")
				el.SetAttribute("href", "/x?a=1&b=2")
				el.SetID("link")
				return el
			},
			want: `<a href="/x?a=1&amp;b=2" id="link"></a>`,
		},
		{
			name: "void element",
			build: func() dom.Node {
				el := mustElement(t, doc, "input")
				el.SetAttribute("value", `say "hi"`)
				return el
			},
			want: `<input value="say &#34;hi&#34;">`,
		},
		{
			name: "boolean attribute",
			build: func() dom.Node {
				el := mustElement(t, doc, "button")
				el.SetDisabled(true)
				return el
			},
			want: "<button disabled></button>",
		},
		{
			name: "escaped text",
			build: func() dom.Node {
				el := mustElement(t, doc, "p")
				el.AppendChild(doc.CreateTextNode("<b> & 'q'"))
				return el
			},
			want: "<p>&lt;b&gt; &amp; &#39;q&#39;</p>",
		},
		{
			name: "raw text element",
			build: func() dom.Node {
				el := mustElement(t, doc, "script")
				el.AppendChild(doc.CreateTextNode("a < b"))
				return el
			},
			want: "<script>a < b</script>",
		},
		{
			name: "fragment",
			build: func() dom.Node {
				frag := doc.CreateFragment()
				frag.AppendChild(mustElement(t, doc, "hr"))
				frag.AppendChild(mustElement(t, doc, "br"))
				return frag
			},
			want: "<hr><br>",
		},
		{
			name:  "text node",
			build: func() dom.Node { return doc.CreateTextNode("x>y") },
			want:  "x&gt;y",
		},
	}

	r := NewRenderer(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.build())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderNil(t *testing.T) {
	r := NewRenderer(Config{})
	got, err := r.RenderToString(nil)
	if err != nil || got != "" {
		t.Errorf("RenderToString(nil) = %q, %v", got, err)
	}
	var el *dom.Element
	if s, err := r.RenderInner(el); s != "" || err != nil {
		t.Errorf("RenderInner(nil) = %q, %v", s, err)
	}
}

func buildList(t *testing.T) *dom.Element {
	doc := dom.NewDocument()
	ul := mustElement(t, doc, "ul")
	for _, text := range []string{"one", "two"} {
		li := mustElement(t, doc, "li")
		li.AppendChild(doc.CreateTextNode(text))
		ul.AppendChild(li)
	}
	return ul
}

func TestRenderPretty(t *testing.T) {
	ul := buildList(t)

	got, err := NewRenderer(Config{Pretty: true}).RenderToString(ul)
	if err != nil {
		t.Fatal(err)
	}
	want := "<ul>\n  <li>one</li>\n  <li>two</li>\n</ul>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, _ = NewRenderer(Config{Pretty: true, Indent: "\t"}).RenderToString(ul)
	if !strings.Contains(got, "\t<li>one</li>") {
		t.Errorf("custom indent not used: %q", got)
	}
}

func TestRenderInner(t *testing.T) {
	ul := buildList(t)
	got, err := NewRenderer(Config{}).RenderInner(ul)
	if err != nil {
		t.Fatal(err)
	}
	if got != "<li>one</li><li>two</li>" {
		t.Errorf("RenderInner = %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	ul := buildList(t)
	var b strings.Builder

	err := NewRenderer(Config{}).RenderPage(&b, PageData{
		Body:     []dom.Node{ul},
		Title:    "A & B",
		Meta:     []MetaTag{{Name: "description", Content: "x"}},
		LivePath: "/_elkit/live",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := b.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		`<meta name="description" content="x">`,
		"<ul><li>one</li><li>two</li></ul>",
		`"/_elkit/live"`,
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := escapeHTML(`<a href="x">'&'</a>`); got != "&lt;a href=&#34;x&#34;&gt;&#39;&amp;&#39;&lt;/a&gt;" {
		t.Errorf("escapeHTML = %q", got)
	}
	if got := escapeAttr("a\nb\tc\r\"d"); got != "a&#10;b&#9;c&#13;&#34;d" {
		t.Errorf("escapeAttr = %q", got)
	}
}
