package core

import "strings"

// BuildTable converts the data lines into typed rows. lines is the complete
// raw input; rows are taken from lines[from:to]. Blank lines are skipped and
// every other line must split into exactly len(columns) fields.
func BuildTable(lines []string, from, to int, columns []string, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	if to > len(lines) {
		to = len(lines)
	}

	cp := newCellParser(opts)
	delim := string(opts.Delimiter)
	want := len(columns)

	t := &Table{Columns: columns}
	for i := from; i < to; i++ {
		line := lines[i]
		if line == "" {
			continue
		}

		fields := strings.Split(line, delim)
		if len(fields) != want {
			return nil, &MalformedRowError{Line: i, Got: len(fields), Want: want}
		}

		row := make([]Cell, want)
		for j, f := range fields {
			row[j] = cp.parse(f)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
