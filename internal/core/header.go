package core

import (
	"strconv"
	"strings"
)

// BlankColumnPrefix names columns that never receive header content:
// "index.0", "index.1", ... in left-to-right order.
const BlankColumnPrefix = "index."

// pathSeparator joins header fragments from successive header rows.
const pathSeparator = "."

// columnPaths is the accumulator threaded through the header rows. Each
// column holds the fragments collected so far; an empty slice is a null path.
type columnPaths struct {
	parts [][]string
}

func newColumnPaths(width int) *columnPaths {
	return &columnPaths{parts: make([][]string, width)}
}

// add folds one forward-filled header row into the accumulator. A null cell
// leaves that column's path unchanged.
func (p *columnPaths) add(row []string, valid []bool) {
	for i := range p.parts {
		if i >= len(row) || !valid[i] {
			continue
		}
		p.parts[i] = append(p.parts[i], row[i])
	}
}

// names joins each path and numbers the blank columns.
func (p *columnPaths) names() []string {
	out := make([]string, len(p.parts))
	blank := 0
	for i, parts := range p.parts {
		if len(parts) == 0 {
			out[i] = BlankColumnPrefix + strconv.Itoa(blank)
			blank++
			continue
		}
		out[i] = strings.Join(parts, pathSeparator)
	}
	return out
}

// forwardFill splits a header line and fills empty cells from the nearest
// non-empty cell to the left in the same line. valid[i] is false where no
// such cell exists.
func forwardFill(line string, delim byte) (cells []string, valid []bool) {
	cells = strings.Split(line, string(delim))
	valid = make([]bool, len(cells))

	last, seen := "", false
	for i, c := range cells {
		if c != "" {
			last, seen = c, true
		}
		if seen {
			cells[i] = last
			valid[i] = true
		}
	}
	return cells, valid
}

// AssembleHeader reduces the header block to one name per column. rows are
// the raw header lines; blank lines among them are ignored. The first row
// left after skipping fixes the column count.
func AssembleHeader(rows []string, delim byte, skip int) ([]string, error) {
	header := make([]string, 0, len(rows))
	for _, r := range rows {
		if r != "" {
			header = append(header, r)
		}
	}

	if len(header) == 0 {
		return nil, ErrEmptyHeaderBlock
	}
	if skip > 0 {
		if skip >= len(header) {
			return nil, &SkipHeaderRowsError{Skip: skip, Max: len(header) - 1}
		}
		header = header[skip:]
	}

	first, firstValid := forwardFill(header[0], delim)
	paths := newColumnPaths(len(first))
	paths.add(first, firstValid)

	for _, line := range header[1:] {
		paths.add(forwardFill(line, delim))
	}

	return paths.names(), nil
}
