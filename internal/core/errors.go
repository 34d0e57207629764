package core

import (
	"errors"
	"fmt"
)

// Parse failures. Every error returned by the parser matches exactly one of
// these with errors.Is; the typed errors below carry the diagnostic context.
var (
	ErrNoHeaderFound            = errors.New("no header found: no line starts with the delimiter")
	ErrNoDataFound              = errors.New("no data found: no line follows the header block")
	ErrTooManyHeaderRowsSkipped = errors.New("too many header rows skipped")
	ErrEmptyHeaderBlock         = errors.New("empty header block")
	ErrMalformedRow             = errors.New("malformed row")
	ErrInvalidOptions           = errors.New("invalid parser options")
	ErrInputTooLarge            = errors.New("input too large")
)

// SkipHeaderRowsError reports a SkipHeaderRows value that would consume the
// whole header block.
type SkipHeaderRowsError struct {
	Skip int // requested rows to skip
	Max  int // largest valid value for this input
}

func (e *SkipHeaderRowsError) Error() string {
	return fmt.Sprintf("too many header rows to skip: %d, maximum is %d", e.Skip, e.Max)
}

func (e *SkipHeaderRowsError) Unwrap() error {
	return ErrTooManyHeaderRowsSkipped
}

// MalformedRowError reports a data line whose field count differs from the
// header-derived column count.
type MalformedRowError struct {
	Line int // zero-based line index in the raw input
	Got  int
	Want int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row at line %d: got %d fields, expected %d", e.Line+1, e.Got, e.Want)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// IsParseError reports whether err is caused by the shape of the input or the
// parse configuration rather than by I/O or infrastructure.
func IsParseError(err error) bool {
	for _, target := range []error{
		ErrNoHeaderFound,
		ErrNoDataFound,
		ErrTooManyHeaderRowsSkipped,
		ErrEmptyHeaderBlock,
		ErrMalformedRow,
		ErrInvalidOptions,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
