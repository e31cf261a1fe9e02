package render

import (
	"strings"

	"golang.org/x/net/html"
)

// attrWhitespace writes newlines and tabs in attribute values as character
// references. Carriage returns are already escaped by html.EscapeString.
var attrWhitespace = strings.NewReplacer("\n", "&#10;", "\t", "&#9;")

// escapeHTML escapes text content.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrWhitespace.Replace(html.EscapeString(s))
}
