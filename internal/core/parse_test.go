package core

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestParse(t *testing.T) {
	input := "Titel\n;2020;2020\n;männlich;weiblich\nDeutschland;100;105\nBayern;102;...\n"

	table, err := Parse(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	wantCols := []string{"index.0", "2020.männlich", "2020.weiblich"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %q, want %q", table.Columns, wantCols)
	}

	want := [][]Cell{
		{StringCell("Deutschland"), IntCell(100), IntCell(105)},
		{StringCell("Bayern"), IntCell(102), MissingCell("...")},
	}
	if table.NumRows() != len(want) {
		t.Fatalf("NumRows() = %d, want %d", table.NumRows(), len(want))
	}
	for r := range want {
		for c := range want[r] {
			if !table.Rows[r][c].Equal(want[r][c]) {
				t.Errorf("cell[%d][%d] = %+v, want %+v", r, c, table.Rows[r][c], want[r][c])
			}
		}
	}
}

func TestParse_FooterTrimmed(t *testing.T) {
	input := "Titel\n;2020;2020\n;männlich;weiblich\nDE;100;105\nBY;102;108\n" +
		"__________\n" +
		"(C)opyright Statistisches Bundesamt (Destatis), 2021\n" +
		"Stand: 2021\n"

	table, err := Parse(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if table.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", table.NumRows())
	}
	if got := table.Rows[1][2]; !got.Equal(IntCell(108)) {
		t.Errorf("last cell = %+v, want 108", got)
	}
}

func TestParse_FooterWithDelimiters(t *testing.T) {
	input := ";a;b\nx;1;2\n___Stand: 2021;;\nnote;;\n"

	table, err := Parse(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if table.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1", table.NumRows())
	}
}

func TestParse_LeadingBlankDataField(t *testing.T) {
	// Data rows that start with ';' belong to the header block, so the
	// first line with content in column 0 starts the data.
	table, err := Parse(";2020;2020\n;m;w\nDE;100;105\n;102;108\n", DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if table.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", table.NumRows())
	}
	if got := table.Rows[1][0]; !got.Equal(StringCell("")) {
		t.Errorf("first cell of second row = %+v, want empty string", got)
	}
}

func TestParse_SkipHeaderRows(t *testing.T) {
	input := "Titel\n;Lebendgeborene;Lebendgeborene\n;2020;2021\nDE;1;2\n"

	opts := DefaultOptions()
	opts.SkipHeaderRows = 1

	table, err := Parse(input, opts)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	wantCols := []string{"index.0", "2020", "2021"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %q, want %q", table.Columns, wantCols)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    func(*Options)
		wantErr error
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrNoHeaderFound,
		},
		{
			name:    "preamble only",
			input:   "Titel\nUntertitel\n",
			wantErr: ErrNoHeaderFound,
		},
		{
			name:    "header without data",
			input:   "Titel\n;2020;2020\n;m;w\n",
			wantErr: ErrNoDataFound,
		},
		{
			name:    "skip consumes all header rows",
			input:   "Titel\n;2020;2020\n;m;w\nDE;1;2\n",
			opts:    func(o *Options) { o.SkipHeaderRows = 2 },
			wantErr: ErrTooManyHeaderRowsSkipped,
		},
		{
			name:    "malformed row",
			input:   ";a;b\nx;1;2\ny;1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "negative skip",
			input:   ";a\nx;1\n",
			opts:    func(o *Options) { o.SkipHeaderRows = -1 },
			wantErr: ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}

			table, err := Parse(tt.input, opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
			if table != nil {
				t.Error("Parse() returned a partial table alongside an error")
			}
			if !IsParseError(err) {
				t.Errorf("IsParseError(%v) = false, want true", err)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := "Titel\n;2020;2020\n;m;w\nDE;1,5;-\nBY;2;3\n___\n"

	first, err := Parse(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	second, err := Parse(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if !first.Equal(second) {
		t.Error("two parses of the same input differ")
	}
}

func TestParser_Concurrent(t *testing.T) {
	p, err := NewParser(DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewParser() unexpected error: %v", err)
	}

	input := ";a;b\nx;1;2\ny;3;4\n"
	want, err := p.Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Parse(input)
			if err != nil {
				errs <- err
				return
			}
			if !got.Equal(want) {
				errs <- errors.New("concurrent parse produced a different table")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNewParser_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.DecimalSeparator = ';'

	if _, err := NewParser(opts, nil); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("NewParser() error = %v, want ErrInvalidOptions", err)
	}
}

func TestParser_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := NewParser(DefaultOptions(), logger)
	if err != nil {
		t.Fatalf("NewParser() unexpected error: %v", err)
	}
	if _, err := p.Parse(";a\nx;1\n___\n"); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	out := buf.String()
	for _, msg := range []string{"regions detected", "header assembled", "footer trimmed", "table built"} {
		if !strings.Contains(out, msg) {
			t.Errorf("debug log missing %q", msg)
		}
	}
}

func TestParseReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		encoding string
		want     string
	}{
		{
			name:  "utf-8",
			input: []byte(";Straße\nx;1\n"),
			want:  "Straße",
		},
		{
			name:  "utf-8 with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte(";Straße\nx;1\n")...),
			want:  "Straße",
		},
		{
			name:     "latin-1",
			input:    []byte(";Stra\xdfe\nx;1\n"),
			encoding: "ISO-8859-1",
			want:     "Straße",
		},
		{
			name:     "windows-1252",
			input:    []byte(";M\xe4nner\nx;1\n"),
			encoding: "windows-1252",
			want:     "Männer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.encoding != "" {
				opts.Encoding = tt.encoding
			}

			table, err := ParseReader(bytes.NewReader(tt.input), opts)
			if err != nil {
				t.Fatalf("ParseReader() unexpected error: %v", err)
			}
			if got := table.Columns[1]; got != tt.want {
				t.Errorf("Columns[1] = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseReader_TooLarge(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInputBytes = 8

	_, err := ParseReader(strings.NewReader(";a;b\nx;1;2\n"), opts)
	if !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("ParseReader() error = %v, want ErrInputTooLarge", err)
	}
	if IsParseError(err) {
		t.Error("input size errors are not parse errors")
	}
}
