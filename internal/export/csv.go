// Package export writes parsed tables in formats other tools can open:
// plain CSV, XLSX workbooks and per-column summaries.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/genesis/internal/core"
)

// utf8BOM lets Excel detect UTF-8 when it opens a CSV file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls the CSV layout.
type CSVOptions struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// DecimalComma writes numbers with ',' as the decimal separator, as
	// German spreadsheet software expects. Use it together with Comma ';'.
	DecimalComma bool

	// MissingValue is written for missing cells (default "").
	MissingValue string

	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
}

// WriteCSV writes t with a single header row of composite column names.
func WriteCSV(w io.Writer, t *core.Table, opts CSVOptions) error {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	if opts.DecimalComma && opts.Comma == ',' {
		return fmt.Errorf("export: decimal comma needs a delimiter other than ','")
	}

	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("export: write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Comma

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for i, row := range t.Rows {
		for j, c := range row {
			record[j] = formatCell(c, opts)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(c core.Cell, opts CSVOptions) string {
	switch c.Kind {
	case core.KindMissing:
		return opts.MissingValue
	case core.KindFloat:
		s := c.String()
		if opts.DecimalComma {
			s = strings.Replace(s, ".", ",", 1)
		}
		return s
	default:
		return c.String()
	}
}
