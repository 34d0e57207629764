package core

import "strings"

// TrimFooter drops the footnote block from t. Rows are scanned from the last
// one backwards; the first row whose raw first cell starts with prefix marks
// the boundary and it is removed together with every row after it. A table
// without a marker is returned unchanged.
func TrimFooter(t *Table, prefix string) *Table {
	if prefix == "" {
		prefix = DefaultFooterPrefix
	}
	for i := len(t.Rows) - 1; i >= 0; i-- {
		row := t.Rows[i]
		if len(row) > 0 && strings.HasPrefix(row[0].Raw, prefix) {
			t.Rows = t.Rows[:i]
			return t
		}
	}
	return t
}

// footerStart applies the TrimFooter rule to raw data lines so a footnote
// block is cut before field counts are checked. It returns the index of the
// marker line, or to when there is none.
func footerStart(lines []string, from, to int, delim byte, prefix string) int {
	for i := to - 1; i >= from; i-- {
		first := lines[i]
		if j := strings.IndexByte(first, delim); j >= 0 {
			first = first[:j]
		}
		if strings.HasPrefix(first, prefix) {
			return i
		}
	}
	return to
}
