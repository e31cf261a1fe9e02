package dom

import (
	"strings"
	"unicode"

	"github.com/gorilla/css/scanner"
)

// Style is the inline style surface of an element. Declarations live in the
// style attribute; property names may be given in camelCase (backgroundColor)
// or kebab-case (background-color) and are stored in kebab-case.
type Style struct {
	el *Element
}

type declaration struct {
	name  string
	value string
}

// Supports reports whether name is a property the surface recognizes.
// Custom properties (--name) are always recognized.
func (s *Style) Supports(name string) bool {
	return PropertyName(name) != ""
}

// Set assigns a property. It returns false, leaving the style untouched,
// when the property is not recognized or the value is not a single CSS
// value (an unclosed string or comment, unbalanced parentheses or a bare
// ';'). An empty value removes the property.
func (s *Style) Set(name, value string) bool {
	prop := PropertyName(name)
	if prop == "" || !validValue(value) {
		return false
	}
	decls := parseDeclarations(s.CSSText())
	value = strings.TrimSpace(value)

	idx := -1
	for i, d := range decls {
		if d.name == prop {
			idx = i
			break
		}
	}
	switch {
	case value == "" && idx >= 0:
		decls = append(decls[:idx], decls[idx+1:]...)
	case value == "":
	case idx >= 0:
		decls[idx].value = value
	default:
		decls = append(decls, declaration{name: prop, value: value})
	}
	s.write(decls)
	return true
}

// Get returns the value of a property, or "" when unset.
func (s *Style) Get(name string) string {
	prop := PropertyName(name)
	if prop == "" {
		return ""
	}
	for _, d := range parseDeclarations(s.CSSText()) {
		if d.name == prop {
			return d.value
		}
	}
	return ""
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	return len(parseDeclarations(s.CSSText()))
}

// CSSText returns the raw style attribute.
func (s *Style) CSSText() string {
	v, _ := s.el.Attribute("style")
	return v
}

func (s *Style) write(decls []declaration) {
	if len(decls) == 0 {
		s.el.RemoveAttribute("style")
		return
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.name + ": " + d.value + ";"
	}
	s.el.SetAttribute("style", strings.Join(parts, " "))
}

// parseDeclarations splits a declaration block. Separators inside strings,
// url() and other functions belong to the value.
func parseDeclarations(text string) []declaration {
	var (
		out     []declaration
		name    strings.Builder
		value   strings.Builder
		inValue bool
		depth   int
	)
	flush := func() {
		prop := strings.ToLower(strings.TrimSpace(name.String()))
		if inValue && prop != "" {
			out = append(out, declaration{name: prop, value: strings.TrimSpace(value.String())})
		}
		name.Reset()
		value.Reset()
		inValue = false
		depth = 0
	}

	sc := scanner.New(text)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			flush()
			return out
		case scanner.TokenError:
			// The unterminated declaration is dropped.
			return out
		case scanner.TokenComment:
			continue
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case "(":
				depth++
			case ")":
				if depth > 0 {
					depth--
				}
			case ";":
				if depth == 0 {
					flush()
					continue
				}
			case ":":
				if !inValue {
					inValue = true
					continue
				}
			}
		}
		if inValue {
			value.WriteString(tok.Value)
		} else {
			name.WriteString(tok.Value)
		}
	}
}

// validValue reports whether value scans as one declaration value.
func validValue(value string) bool {
	depth := 0
	sc := scanner.New(value)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return depth == 0
		case scanner.TokenError:
			return false
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return false
				}
				depth--
			case ";":
				if depth == 0 {
					return false
				}
			}
		}
	}
}

// PropertyName normalizes a CSS property name to kebab-case and returns ""
// when the property is not recognized.
func PropertyName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "--") {
		if len(name) > 2 {
			return name
		}
		return ""
	}
	if name == "cssFloat" {
		name = "float"
	}
	prop := kebab(name)
	if knownProperties[prop] {
		return prop
	}
	if vendor := stripVendor(prop); vendor != "" && knownProperties[vendor] {
		return prop
	}
	return ""
}

// kebab converts camelCase to kebab-case. A leading capital marks a vendor
// prefix: WebkitTransform becomes -webkit-transform.
func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripVendor(prop string) string {
	for _, prefix := range []string{"-webkit-", "-moz-", "-ms-", "-o-"} {
		if strings.HasPrefix(prop, prefix) {
			return strings.TrimPrefix(prop, prefix)
		}
	}
	return ""
}
