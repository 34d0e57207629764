package core

import (
	"fmt"
	"strings"
	"testing"
)

// syntheticExport builds a GENESIS-style export with a two-row header,
// the given number of data rows and a footnote block.
func syntheticExport(rows, years int) string {
	var b strings.Builder
	b.WriteString("Statistik der Bevölkerung\n")
	b.WriteString("Bevölkerung: Kreise, Stichtag, Geschlecht\n")

	for y := 0; y < years; y++ {
		fmt.Fprintf(&b, ";%d;%d", 2000+y, 2000+y)
	}
	b.WriteByte('\n')
	for y := 0; y < years; y++ {
		b.WriteString(";männlich;weiblich")
	}
	b.WriteByte('\n')

	for r := 0; r < rows; r++ {
		fmt.Fprintf(&b, "Kreis %d", r)
		for y := 0; y < years; y++ {
			switch (r + y) % 7 {
			case 0:
				b.WriteString(";-;...")
			case 1:
				fmt.Fprintf(&b, ";%d,%d;x", r, y)
			default:
				fmt.Fprintf(&b, ";%d;%d", r*y, r+y)
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("__________\n")
	b.WriteString("(C)opyright Statistisches Bundesamt (Destatis), 2021\n")
	return b.String()
}

// BenchmarkParseCell covers the hot path: every data field goes through it.
func BenchmarkParseCell(b *testing.B) {
	testCases := []string{
		"123",
		"-456,78",
		"1,5e3",
		"...",
		"Deutschland",
		"  999  ",
	}
	cp := newCellParser(DefaultOptions())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			cp.parse(tc)
		}
	}
}

func BenchmarkAssembleHeader(b *testing.B) {
	rows := []string{
		strings.Repeat(";Bevölkerung;", 50),
		strings.Repeat(";2020;2021", 50),
		strings.Repeat(";männlich;weiblich", 50),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := AssembleHeader(rows, ';', 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	sizes := []struct {
		name  string
		rows  int
		years int
	}{
		{"small", 100, 5},
		{"medium", 1000, 10},
		{"large", 10000, 20},
	}

	for _, size := range sizes {
		input := syntheticExport(size.rows, size.years)
		b.Run(size.name, func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(input, DefaultOptions()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParseReader(b *testing.B) {
	input := syntheticExport(1000, 10)

	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseReader(strings.NewReader(input), DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}

func TestSyntheticExport_Parses(t *testing.T) {
	table, err := Parse(syntheticExport(20, 3), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if table.NumRows() != 20 || table.NumCols() != 7 {
		t.Errorf("shape = %dx%d, want 20x7", table.NumRows(), table.NumCols())
	}
	if table.Columns[1] != "2000.männlich" {
		t.Errorf("Columns[1] = %q, want 2000.männlich", table.Columns[1])
	}
}
