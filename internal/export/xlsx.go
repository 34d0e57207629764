package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/genesis/internal/core"
)

// DefaultSheetName is used when XLSXOptions.SheetName is empty or unusable.
const DefaultSheetName = "Table"

// maxSheetNameLen is the Excel limit on worksheet names.
const maxSheetNameLen = 31

// XLSXOptions controls the workbook layout.
type XLSXOptions struct {
	SheetName string
}

// WriteXLSX writes t as a single-sheet workbook. The header row is bold and
// frozen; numbers are stored as numbers and missing cells are left empty.
func WriteXLSX(w io.Writer, t *core.Table, opts XLSXOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(opts.SheetName)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	for j, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("export: header cell %d: %w", j, err)
		}
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}

	for i, row := range t.Rows {
		for j, c := range row {
			if c.IsMissing() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("export: cell %d/%d: %w", i, j, err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue(c)); err != nil {
				return fmt.Errorf("export: write row %d: %w", i, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func cellValue(c core.Cell) any {
	switch c.Kind {
	case core.KindInt:
		return c.Int
	case core.KindFloat:
		return c.Float
	default:
		return c.Str
	}
}

// sheetName strips characters Excel rejects and enforces the length limit.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if runes := []rune(name); len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	if name == "" {
		return DefaultSheetName
	}
	return name
}
