// Package layout builds element trees from JSON layout documents.
//
// A layout is a sequence of blocks. Each block names exactly one of three
// shapes:
//
//	{"element": {...}}
//	{"list": {...}, "entries": [{...}, ...]}
//	{"table": {...}, "rows": [{"row": {...}, "cells": [{"cell": {...}, "content": [block, ...]}]}]}
//
// Every {...} is an element configuration record. The document is either a
// JSON array of blocks or an object with "title" and "blocks".
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vango-dev/elkit/internal/errors"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/element"
)

// Document is a decoded layout.
type Document struct {
	Title  string  `json:"title,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Block is one top-level or nested layout entry.
type Block struct {
	Element *element.Config `json:"element,omitempty"`

	List    *element.Config   `json:"list,omitempty"`
	Entries []*element.Config `json:"entries,omitempty"`

	Table *element.Config `json:"table,omitempty"`
	Rows  []Row           `json:"rows,omitempty"`
}

// Row is a table row and its cells.
type Row struct {
	Row   *element.Config `json:"row,omitempty"`
	Cells []Cell          `json:"cells,omitempty"`
}

// Cell is a table cell. Content blocks are built and appended in order,
// then Text is appended.
type Cell struct {
	Cell    *element.Config `json:"cell,omitempty"`
	Content []Block         `json:"content,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// Decode reads a layout document from r and checks every block's shape.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E021").Wrap(err)
	}

	var doc Document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &doc.Blocks)
	} else {
		err = json.Unmarshal(trimmed, &doc)
	}
	if err != nil {
		return nil, errors.New("E021").Wrap(err)
	}

	if err := validate(doc.Blocks, "blocks"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeBlock reads a single block from r.
func DecodeBlock(r io.Reader) (*Block, error) {
	var b Block
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.New("E021").Wrap(err)
	}
	if err := validate([]Block{b}, "block"); err != nil {
		return nil, err
	}
	return &b, nil
}

// Build creates the block's element with h.
func (b *Block) Build(h *element.Handler) (*dom.Element, error) {
	el, err := buildBlock(h, b)
	if err != nil {
		return nil, errors.New("E022").WithOp("build").Wrap(err)
	}
	return el, nil
}

// Kind returns "element", "list" or "table", or "" when the block does not
// name exactly one shape.
func (b *Block) Kind() string {
	kind, n := "", 0
	if b.Element != nil {
		kind, n = "element", n+1
	}
	if b.List != nil {
		kind, n = "list", n+1
	}
	if b.Table != nil {
		kind, n = "table", n+1
	}
	if n != 1 {
		return ""
	}
	return kind
}

func validate(blocks []Block, path string) error {
	for i := range blocks {
		b := &blocks[i]
		at := fmt.Sprintf("%s[%d]", path, i)
		if b.Kind() == "" {
			return errors.New("E020").WithDetail(at)
		}
		for r, row := range b.Rows {
			for c, cell := range row.Cells {
				if err := validate(cell.Content, fmt.Sprintf("%s.rows[%d].cells[%d].content", at, r, c)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Build creates the top-level elements of the document with h.
func (d *Document) Build(h *element.Handler) ([]*dom.Element, error) {
	els, err := buildBlocks(h, d.Blocks, "blocks")
	if err != nil {
		return nil, errors.New("E022").WithOp("build").Wrap(err)
	}
	return els, nil
}

func buildBlocks(h *element.Handler, blocks []Block, path string) ([]*dom.Element, error) {
	out := make([]*dom.Element, 0, len(blocks))
	for i := range blocks {
		at := fmt.Sprintf("%s[%d]", path, i)
		el, err := buildBlock(h, &blocks[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func buildBlock(h *element.Handler, b *Block) (*dom.Element, error) {
	switch b.Kind() {
	case "element":
		return h.Create(b.Element)

	case "list":
		list, err := h.CreateList(b.List)
		if err != nil {
			return nil, err
		}
		for _, entry := range b.Entries {
			if err := list.AddEntry(entry); err != nil {
				return nil, err
			}
		}
		return list.Element(), nil

	case "table":
		table, err := h.CreateTable(b.Table)
		if err != nil {
			return nil, err
		}
		for r, row := range b.Rows {
			if err := table.AddRow(row.Row); err != nil {
				return nil, err
			}
			for c, cell := range row.Cells {
				if err := table.AddCell(cell.Cell); err != nil {
					return nil, err
				}
				content, err := buildBlocks(h, cell.Content, fmt.Sprintf("rows[%d].cells[%d].content", r, c))
				if err != nil {
					return nil, err
				}
				for _, el := range content {
					table.AddCellElement(el)
				}
				if cell.Text != "" {
					table.AddCellData(cell.Text)
				}
			}
		}
		return table.Element(), nil

	default:
		return nil, errors.New("E020")
	}
}
