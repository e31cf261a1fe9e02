package element

import "github.com/vango-dev/elkit/pkg/dom"

// Table builds a table row by row and cell by cell. Cells are always added to
// the most recent row, and content to the most recent cell.
type Table struct {
	h    *Handler
	el   *dom.Element
	row  *dom.Element
	cell *dom.Element

	rowIndex  int
	cellIndex int
}

// CreateTable creates a table container from cfg. cfg.Type is ignored and
// cfg is not modified.
func (h *Handler) CreateTable(cfg *Config) (*Table, error) {
	c := cfg.clone()
	c.Type = "table"
	el, err := h.Create(c)
	if err != nil {
		return nil, err
	}
	return &Table{h: h, el: el}, nil
}

// AddRow starts a new row configured by cfg. The cell index resets and the
// current cell is cleared.
func (t *Table) AddRow(cfg *Config) error {
	row, err := t.el.InsertRow(t.rowIndex)
	if err != nil {
		return err
	}
	t.h.metrics.NodeCreated("tr")
	t.row = row
	t.cell = nil
	t.cellIndex = 0
	t.rowIndex++
	return t.h.Apply(row, cfg)
}

// AddCell adds a cell configured by cfg to the current row. Without a row it
// logs a diagnostic and does nothing.
func (t *Table) AddCell(cfg *Config) error {
	if t.row == nil {
		t.h.diagnose("E011", "addCell", "table", t.el.ID())
		return nil
	}
	cell, err := t.row.InsertCell(t.cellIndex)
	if err != nil {
		return err
	}
	t.h.metrics.NodeCreated("td")
	t.cell = cell
	t.cellIndex++
	return t.h.Apply(cell, cfg)
}

// AddCellElement appends el to the current cell. A nil el is ignored.
// Without a cell it logs a diagnostic and does nothing.
func (t *Table) AddCellElement(el *dom.Element) {
	if el == nil {
		return
	}
	if t.cell == nil {
		t.h.diagnose("E012", "addCellElement", "table", t.el.ID())
		return
	}
	if err := t.cell.AppendChild(el); err != nil {
		t.h.diagnose("E014", "addCellElement", "table", t.el.ID(), "error", err)
	}
}

// AddCellData appends text to the current cell.
func (t *Table) AddCellData(text string) {
	if t.cell == nil {
		t.h.diagnose("E012", "addCellData", "table", t.el.ID())
		return
	}
	t.cell.AppendChild(t.h.doc.CreateTextNode(text))
}

// Element returns the table container.
func (t *Table) Element() *dom.Element { return t.el }

// Rows returns the number of rows added.
func (t *Table) Rows() int { return t.rowIndex }

// Cells returns the number of cells added to the current row.
func (t *Table) Cells() int { return t.cellIndex }
