// Package render serializes element trees to HTML.
//
// The renderer walks dom nodes and writes HTML5 markup, handling text and
// attribute escaping, void elements and boolean attributes:
//
//	r := render.NewRenderer(render.Config{})
//	html, err := r.RenderToString(list.Element())
//
// Pretty mode indents block elements, one per line, with Config.Indent per
// level. RenderPage wraps a set of elements in a complete document and can
// include the live preview client.
package render
