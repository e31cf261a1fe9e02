package dom

import "strings"

// ClassList is a token view over an element's class attribute.
type ClassList struct {
	el *Element
}

// Tokens returns the class tokens in order.
func (c *ClassList) Tokens() []string {
	return strings.Fields(c.el.ClassName())
}

// Len returns the number of tokens.
func (c *ClassList) Len() int { return len(c.Tokens()) }

// Contains reports whether token is present.
func (c *ClassList) Contains(token string) bool {
	for _, t := range c.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends tokens that are not already present. Empty tokens and tokens
// containing whitespace are ignored.
func (c *ClassList) Add(tokens ...string) {
	current := c.Tokens()
	changed := false
	for _, token := range tokens {
		if token == "" || strings.ContainsAny(token, " \t\n\f\r") {
			continue
		}
		if contains(current, token) {
			continue
		}
		current = append(current, token)
		changed = true
	}
	if changed {
		c.el.SetClassName(strings.Join(current, " "))
	}
}

// Remove deletes tokens if present.
func (c *ClassList) Remove(tokens ...string) {
	current := c.Tokens()
	kept := current[:0]
	for _, t := range current {
		if !contains(tokens, t) {
			kept = append(kept, t)
		}
	}
	if len(kept) != len(current) {
		c.el.SetClassName(strings.Join(kept, " "))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
