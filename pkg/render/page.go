package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/elkit/pkg/dom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body holds the nodes rendered inside <body>, in order.
	Body []dom.Node

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// LivePath is the WebSocket path of the live preview endpoint. When set,
	// the page includes a client that applies patches pushed on it.
	LivePath string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// liveClient replaces the inner markup of the patched element.
const liveClient = `(function(){
var p=location.protocol==="https:"?"wss:":"ws:";
var ws=new WebSocket(p+"//"+location.host+%q);
ws.onmessage=function(e){
var m=JSON.parse(e.data);
if(m.type!=="patch")return;
var el=document.getElementById(m.target);
if(el)el.innerHTML=m.html;
};
})();`

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	for _, node := range page.Body {
		if err := r.RenderToWriter(w, node); err != nil {
			return err
		}
		if !r.config.Pretty {
			io.WriteString(w, "\n")
		}
	}

	if page.LivePath != "" {
		if _, err := fmt.Fprintf(w, "<script>"+liveClient+"</script>\n", page.LivePath); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := r.renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderMetaTag renders a meta element.
func (r *Renderer) renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := io.WriteString(w, "  <meta"); err != nil {
		return err
	}
	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, escapeAttr(meta.Name)); err != nil {
			return err
		}
	}
	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, escapeAttr(meta.Property)); err != nil {
			return err
		}
	}
	if meta.Content != "" {
		if _, err := fmt.Fprintf(w, ` content="%s"`, escapeAttr(meta.Content)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}
