package core

import (
	"encoding/json"
	"fmt"
)

// Table is the parsed export: column names fixed by the header block and rows
// of typed cells in input order. Every row has exactly len(Columns) cells.
//
// Column names are not deduplicated. Two header paths that collapse to the
// same name both survive, so address columns by position when that matters.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of the first column named name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of column i, top to bottom.
func (t *Table) Column(i int) []Cell {
	if i < 0 || i >= len(t.Columns) {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Records renders the table as a string matrix, header row first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	copy(header, t.Columns)
	out = append(out, header)
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.String()
		}
		out = append(out, rec)
	}
	return out
}

// Equal reports whether both tables have the same columns and cell values.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for r := range t.Rows {
		if len(t.Rows[r]) != len(o.Rows[r]) {
			return false
		}
		for c := range t.Rows[r] {
			if !t.Rows[r][c].Equal(o.Rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// tableJSON keeps rows as arrays so duplicate column names cannot collide.
type tableJSON struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = [][]Cell{}
	}
	return json.Marshal(tableJSON{Columns: t.Columns, Rows: rows})
}

// UnmarshalJSON decodes the MarshalJSON form and enforces row width.
func (t *Table) UnmarshalJSON(data []byte) error {
	var tj tableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	for i, row := range tj.Rows {
		if len(row) != len(tj.Columns) {
			return fmt.Errorf("table: row %d has %d cells, expected %d", i, len(row), len(tj.Columns))
		}
	}
	t.Columns = tj.Columns
	t.Rows = tj.Rows
	return nil
}
