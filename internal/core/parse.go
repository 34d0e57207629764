package core

import (
	"io"
	"log/slog"
)

// Parser turns GENESIS CSV exports into Tables. It holds no mutable state and
// is safe for concurrent use.
type Parser struct {
	opts   Options
	logger *slog.Logger
}

// NewParser validates opts and returns a Parser. A nil logger discards debug
// output.
func NewParser(opts Options, logger *slog.Logger) (*Parser, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{opts: opts, logger: logger}, nil
}

// Options returns the effective options.
func (p *Parser) Options() Options { return p.opts }

// Parse runs the full pipeline over an in-memory export:
//
//  1. ScanRegions splits preamble, header block and data block
//  2. AssembleHeader composes the column names
//  3. the footnote block is located on the raw data lines
//  4. BuildTable converts the remaining lines into typed rows
//
// Any failure aborts the parse; no partial table is returned.
func (p *Parser) Parse(text string) (*Table, error) {
	lines := SplitLines(text)

	regions, err := ScanRegions(lines, p.opts.Delimiter)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("regions detected",
		"lines", len(lines),
		"header_start", regions.HeaderStart,
		"data_start", regions.DataStart,
	)

	columns, err := AssembleHeader(lines[regions.HeaderStart:regions.HeaderEnd()], p.opts.Delimiter, p.opts.SkipHeaderRows)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("header assembled", "columns", len(columns), "names", columns)

	end := footerStart(lines, regions.DataStart, len(lines), p.opts.Delimiter, p.opts.FooterPrefix)
	if end < len(lines) {
		p.logger.Debug("footer trimmed", "footer_line", end, "dropped_lines", len(lines)-end)
	}

	t, err := BuildTable(lines, regions.DataStart, end, columns, p.opts)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("table built", "rows", t.NumRows(), "cols", t.NumCols())
	return t, nil
}

// ParseReader decodes r according to the parser's encoding and size limit,
// then parses it.
func (p *Parser) ParseReader(r io.Reader) (*Table, error) {
	text, n, err := ReadInput(r, p.opts)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("input read", "bytes", n, "encoding", p.opts.Encoding)
	return p.Parse(text)
}

// Parse is a convenience wrapper around NewParser(opts, nil).Parse.
func Parse(text string, opts Options) (*Table, error) {
	p, err := NewParser(opts, nil)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// ParseReader is a convenience wrapper around NewParser(opts, nil).ParseReader.
func ParseReader(r io.Reader, opts Options) (*Table, error) {
	p, err := NewParser(opts, nil)
	if err != nil {
		return nil, err
	}
	return p.ParseReader(r)
}
