package core

import (
	"fmt"
	"strings"
)

// Defaults match the GENESIS "datencsv" export format.
const (
	DefaultDelimiter        = ';'
	DefaultDecimalSeparator = ','
	DefaultFooterPrefix     = "___"
	DefaultEncoding         = "utf-8"
)

// DefaultMissingValueTokens are the placeholders GENESIS writes for
// suppressed, unavailable or not applicable values.
var DefaultMissingValueTokens = []string{"-", "/", "x", ".", "..."}

// Options controls how a raw export is turned into a Table.
type Options struct {
	// Delimiter separates fields within a line (default ';').
	Delimiter byte

	// DecimalSeparator is replaced by '.' before numeric parsing (default ',').
	DecimalSeparator byte

	// ThousandsSeparator is stripped before numeric parsing when non-zero.
	// Zero (the default) leaves grouping characters in place, so "1.234,56"
	// stays a string.
	ThousandsSeparator byte

	// SkipHeaderRows drops this many leading header rows before column
	// names are composed.
	SkipHeaderRows int

	// MissingValueTokens are matched exactly (case-sensitive) against raw
	// fields; a match becomes a missing cell.
	MissingValueTokens []string

	// FooterPrefix marks the first line of the trailing footnote block.
	FooterPrefix string

	// Encoding names the input charset for ParseReader (IANA name).
	Encoding string

	// MaxInputBytes limits how much ParseReader will read; 0 means unlimited.
	MaxInputBytes int64
}

// DefaultOptions returns the options used by the GENESIS CSV export.
func DefaultOptions() Options {
	tokens := make([]string, len(DefaultMissingValueTokens))
	copy(tokens, DefaultMissingValueTokens)
	return Options{
		Delimiter:          DefaultDelimiter,
		DecimalSeparator:   DefaultDecimalSeparator,
		MissingValueTokens: tokens,
		FooterPrefix:       DefaultFooterPrefix,
		Encoding:           DefaultEncoding,
	}
}

// withDefaults fills zero-valued fields so a partially populated Options
// behaves like DefaultOptions for everything the caller left out.
// MissingValueTokens is left alone: nil and empty both mean "no sentinels".
func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.DecimalSeparator == 0 {
		o.DecimalSeparator = DefaultDecimalSeparator
	}
	if o.FooterPrefix == "" {
		o.FooterPrefix = DefaultFooterPrefix
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	return o
}

// Validate reports configuration that can never produce a sensible parse.
func (o Options) Validate() error {
	o = o.withDefaults()

	var errs []string
	if o.SkipHeaderRows < 0 {
		errs = append(errs, fmt.Sprintf("skip header rows (%d) must be non-negative", o.SkipHeaderRows))
	}
	if o.Delimiter == o.DecimalSeparator {
		errs = append(errs, fmt.Sprintf("delimiter %q must differ from decimal separator", o.Delimiter))
	}
	if o.ThousandsSeparator != 0 && o.ThousandsSeparator == o.DecimalSeparator {
		errs = append(errs, fmt.Sprintf("thousands separator %q must differ from decimal separator", o.ThousandsSeparator))
	}
	if o.ThousandsSeparator != 0 && o.ThousandsSeparator == o.Delimiter {
		errs = append(errs, fmt.Sprintf("thousands separator %q must differ from delimiter", o.ThousandsSeparator))
	}
	if o.MaxInputBytes < 0 {
		errs = append(errs, fmt.Sprintf("max input bytes (%d) must be non-negative", o.MaxInputBytes))
	}
	if _, err := lookupEncoding(o.Encoding); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(errs, "; "))
	}
	return nil
}

// missingSet indexes the sentinel tokens for exact lookup.
func (o Options) missingSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.MissingValueTokens))
	for _, tok := range o.MissingValueTokens {
		set[tok] = struct{}{}
	}
	return set
}
