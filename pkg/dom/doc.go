// Package dom provides the in-memory document that elkit builds into.
//
// A Document hands out three kinds of nodes:
//
//   - Element: a tag with attributes, a class list, a style surface and
//     children. Form controls expose a value slot and a disabled slot,
//     non-void elements expose a markup slot (inner HTML).
//   - Text: literal text, never interpreted as markup.
//   - Fragment: an offscreen container. Appending a fragment to an element
//     moves its children and leaves the fragment empty.
//
// Nodes are backed by *html.Node from golang.org/x/net/html, so a tree can be
// handed to any code that understands the standard HTML node type.
//
// # Tables
//
// Table elements support InsertRow and InsertCell the way browsers do: rows
// land in the last tbody (created on demand) and an index of -1 appends.
//
// # Concurrency
//
// The node wrapper registry of a Document is safe for concurrent use. The
// tree itself is not: a node must not be mutated from two goroutines at once.
package dom
