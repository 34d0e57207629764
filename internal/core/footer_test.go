package core

import "testing"

func rowsOf(firsts ...string) [][]Cell {
	rows := make([][]Cell, len(firsts))
	for i, f := range firsts {
		rows[i] = []Cell{StringCell(f), IntCell(int64(i))}
	}
	return rows
}

func TestTrimFooter(t *testing.T) {
	tests := []struct {
		name     string
		firsts   []string
		prefix   string
		wantRows int
	}{
		{
			name:     "no marker leaves table unchanged",
			firsts:   []string{"Berlin", "Hamburg"},
			wantRows: 2,
		},
		{
			name:     "marker and following rows removed",
			firsts:   []string{"Berlin", "Hamburg", "___", "Stand: 2021"},
			wantRows: 2,
		},
		{
			name:     "marker on last row",
			firsts:   []string{"Berlin", "_____________"},
			wantRows: 1,
		},
		{
			name:     "last marker wins",
			firsts:   []string{"Berlin", "___a", "Hamburg", "___b", "note"},
			wantRows: 3,
		},
		{
			name:     "marker on first row empties table",
			firsts:   []string{"___", "Berlin"},
			wantRows: 0,
		},
		{
			name:     "two underscores is not a marker",
			firsts:   []string{"Berlin", "__x"},
			wantRows: 2,
		},
		{
			name:     "custom prefix",
			firsts:   []string{"Berlin", "##", "note"},
			prefix:   "##",
			wantRows: 1,
		},
		{
			name:     "empty table",
			firsts:   nil,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{Columns: []string{"k", "v"}, Rows: rowsOf(tt.firsts...)}
			got := TrimFooter(table, tt.prefix)
			if got.NumRows() != tt.wantRows {
				t.Errorf("NumRows() = %d, want %d", got.NumRows(), tt.wantRows)
			}
		})
	}
}

func TestTrimFooter_Idempotent(t *testing.T) {
	table := &Table{Columns: []string{"k", "v"}, Rows: rowsOf("Berlin", "___", "note")}
	once := TrimFooter(table, "").NumRows()
	twice := TrimFooter(table, "").NumRows()
	if once != twice {
		t.Errorf("second TrimFooter changed row count: %d -> %d", once, twice)
	}
}

func TestFooterStart(t *testing.T) {
	lines := []string{";a;b", "x;1;2", "___;;", "Stand: 2021"}

	if got := footerStart(lines, 1, len(lines), ';', "___"); got != 2 {
		t.Errorf("footerStart() = %d, want 2", got)
	}
	if got := footerStart(lines[:2], 1, 2, ';', "___"); got != 2 {
		t.Errorf("footerStart() without marker = %d, want 2", got)
	}
}
