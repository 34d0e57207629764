package core

import (
	"errors"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Delimiter != ';' || opts.DecimalSeparator != ',' {
		t.Errorf("separators = %q/%q, want ';'/','", opts.Delimiter, opts.DecimalSeparator)
	}
	if opts.FooterPrefix != "___" {
		t.Errorf("FooterPrefix = %q, want ___", opts.FooterPrefix)
	}
	if len(opts.MissingValueTokens) != 5 {
		t.Errorf("MissingValueTokens = %q, want 5 tokens", opts.MissingValueTokens)
	}

	// The returned slice must not alias the package default.
	opts.MissingValueTokens[0] = "changed"
	if DefaultMissingValueTokens[0] != "-" {
		t.Error("DefaultOptions() shares its token slice with DefaultMissingValueTokens")
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr bool
	}{
		{
			name:    "zero value is usable",
			modify:  func(o *Options) { *o = Options{} },
			wantErr: false,
		},
		{
			name:    "negative skip",
			modify:  func(o *Options) { o.SkipHeaderRows = -1 },
			wantErr: true,
		},
		{
			name:    "delimiter equals decimal separator",
			modify:  func(o *Options) { o.Delimiter = ',' },
			wantErr: true,
		},
		{
			name:    "thousands equals decimal separator",
			modify:  func(o *Options) { o.ThousandsSeparator = ',' },
			wantErr: true,
		},
		{
			name:    "thousands equals delimiter",
			modify:  func(o *Options) { o.ThousandsSeparator = ';' },
			wantErr: true,
		},
		{
			name:    "dot thousands separator",
			modify:  func(o *Options) { o.ThousandsSeparator = '.' },
			wantErr: false,
		},
		{
			name:    "negative input limit",
			modify:  func(o *Options) { o.MaxInputBytes = -1 },
			wantErr: true,
		},
		{
			name:    "unknown encoding",
			modify:  func(o *Options) { o.Encoding = "ebcdic-klingon" },
			wantErr: true,
		},
		{
			name:    "latin-1 encoding",
			modify:  func(o *Options) { o.Encoding = "ISO-8859-1" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)

			err := opts.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOptions) {
					t.Errorf("Validate() error = %v, want ErrInvalidOptions", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestOptions_ZeroValueHasNoTokens(t *testing.T) {
	if got := ParseCell("-", Options{}); got.Kind != KindString {
		t.Errorf("ParseCell(\"-\", Options{}).Kind = %v, want string", got.Kind)
	}
	if got := ParseCell("1,5", Options{}); got.Kind != KindFloat {
		t.Errorf("ParseCell(\"1,5\", Options{}).Kind = %v, want float", got.Kind)
	}
}
