package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rows returns the rows of a table element in document order, looking at
// direct tr children and the tr children of thead, tbody and tfoot.
func (e *Element) Rows() []*Element {
	var rows []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			rows = append(rows, e.doc.wrap(c))
		case "thead", "tbody", "tfoot":
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.Data == "tr" {
					rows = append(rows, e.doc.wrap(r))
				}
			}
		}
	}
	return rows
}

// Cells returns the td and th children of a row element.
func (e *Element) Cells() []*Element {
	var cells []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, e.doc.wrap(c))
		}
	}
	return cells
}

// InsertRow inserts a new tr at index on a table element. An index of -1 or
// equal to the row count appends to the last tbody, creating one if the
// table has none.
func (e *Element) InsertRow(index int) (*Element, error) {
	if e.n.Data != "table" {
		return nil, fmt.Errorf("%w: insertRow on <%s>", ErrNotSupported, e.n.Data)
	}
	rows := e.Rows()
	if index < -1 || index > len(rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrIndexSize, index, len(rows))
	}

	tr := e.newChild(atom.Tr)
	if index == -1 || index == len(rows) {
		e.lastBody().AppendChild(tr)
	} else {
		ref := rows[index].n
		ref.Parent.InsertBefore(tr, ref)
	}
	return e.doc.wrap(tr), nil
}

// InsertCell inserts a new td at index on a row element. An index of -1 or
// equal to the cell count appends.
func (e *Element) InsertCell(index int) (*Element, error) {
	if e.n.Data != "tr" {
		return nil, fmt.Errorf("%w: insertCell on <%s>", ErrNotSupported, e.n.Data)
	}
	cells := e.Cells()
	if index < -1 || index > len(cells) {
		return nil, fmt.Errorf("%w: cell %d of %d", ErrIndexSize, index, len(cells))
	}

	td := e.newChild(atom.Td)
	if index == -1 || index == len(cells) {
		e.n.AppendChild(td)
	} else {
		e.n.InsertBefore(td, cells[index].n)
	}
	return e.doc.wrap(td), nil
}

func (e *Element) lastBody() *html.Node {
	var body *html.Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tbody" {
			body = c
		}
	}
	if body == nil {
		body = e.newChild(atom.Tbody)
		e.n.AppendChild(body)
	}
	return body
}

func (e *Element) newChild(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
