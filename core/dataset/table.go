// Package dataset defines the explicit in-memory table shape shared by the
// input readers and the conversion step.
package dataset

import (
	"errors"
	"strings"
)

// ErrMissingColumn reports a table lacking a column its reader requires.
var ErrMissingColumn = errors.New("table missing required column")

// Table is a rectangular table of string cells. Null marks cells that were
// absent in the source; a missing Null slice means no cell is null.
type Table struct {
	Columns []string
	Rows    [][]string
	Null    [][]bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column or -1. Column names are
// compared after trimming surrounding whitespace.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}

// Value returns the trimmed cell at row, col.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// IsNull reports whether the cell at row, col is missing or blank.
func (t *Table) IsNull(row, col int) bool {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return true
	}
	if row < len(t.Null) && col < len(t.Null[row]) && t.Null[row][col] {
		return true
	}
	return t.Value(row, col) == ""
}
