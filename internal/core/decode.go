package core

// decode.go prepares a raw export for parsing.
//
// Exports arrive as UTF-8 (sometimes with a BOM written by Windows tools) or,
// from older GENESIS instances, in a Latin-1 family charset. The readers here
// normalize both to clean UTF-8 and cap how much is read:
//
//   - NewDecodingReader: BOM stripping and invalid-byte replacement for UTF-8,
//     charset conversion for everything else
//   - CountingReader: tracks bytes read and enforces a size limit

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves an IANA charset name. UTF-8 maps to the BOM-aware
// decoder, which also replaces invalid sequences with U+FFFD.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// NewDecodingReader wraps r so that reads yield UTF-8 decoded from the named
// charset.
func NewDecodingReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// CountingReader wraps an io.Reader to track bytes read. When Limit is
// positive, reading past it fails with ErrInputTooLarge.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCountingReader creates a counting reader; limit 0 disables the cap.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	if limit > 0 {
		// one extra byte distinguishes "exactly at the limit" from "over it"
		r = io.LimitReader(r, limit+1)
	}
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, r.Limit)
	}
	return n, err
}

// ReadInput reads the whole export from r, decoding it according to opts.
// The size limit applies to the raw bytes, before decoding.
func ReadInput(r io.Reader, opts Options) (string, int64, error) {
	opts = opts.withDefaults()

	counter := NewCountingReader(r, opts.MaxInputBytes)
	decoded, err := NewDecodingReader(counter, opts.Encoding)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, decoded); err != nil {
		return "", counter.BytesRead, fmt.Errorf("read input: %w", err)
	}
	return b.String(), counter.BytesRead, nil
}
