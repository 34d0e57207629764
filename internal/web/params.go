package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/genesis/internal/core"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// parseParams are the query parameters of the parse and table endpoints.
type parseParams struct {
	SkipHeaderRows int      `validate:"min=0,max=1000"`
	MissingValues  []string `validate:"max=100,dive,max=64"`
	Thousands      string   `validate:"omitempty,len=1,printascii"`
	Encoding       string   `validate:"omitempty,max=64"`
	Format         string   `validate:"oneof=json csv xlsx"`
	Layout         string   `validate:"omitempty,oneof=de"`
	Name           string   `validate:"max=200"`
	Source         string   `validate:"max=200"`

	hasSkip    bool
	hasMissing bool
}

// pageParams are the query parameters of the table listing.
type pageParams struct {
	Limit  int `validate:"min=0,max=500"`
	Offset int `validate:"min=0"`
}

// bindParseParams reads and validates the parse query parameters.
func (s *Server) bindParseParams(r *http.Request) (parseParams, error) {
	q := r.URL.Query()

	p := parseParams{
		Thousands: q.Get("thousands"),
		Encoding:  q.Get("encoding"),
		Format:    q.Get("format"),
		Layout:    q.Get("layout"),
		Name:      strings.TrimSpace(q.Get("name")),
		Source:    strings.TrimSpace(q.Get("source")),
	}
	if p.Format == "" {
		p.Format = FormatJSON
	}

	if q.Has("skip_header_rows") {
		n, err := queryInt(q, "skip_header_rows")
		if err != nil {
			return p, err
		}
		p.SkipHeaderRows = n
		p.hasSkip = true
	}

	// An explicit na= replaces the default tokens; a single empty value
	// turns missing value detection off.
	if q.Has("na") {
		p.hasMissing = true
		for _, v := range q["na"] {
			if v != "" {
				p.MissingValues = append(p.MissingValues, v)
			}
		}
	}

	if err := s.validateStruct(p); err != nil {
		return p, err
	}
	return p, nil
}

// options applies the request overrides to the server defaults.
func (p parseParams) options(base core.Options) core.Options {
	opts := base
	if p.hasSkip {
		opts.SkipHeaderRows = p.SkipHeaderRows
	}
	if p.hasMissing {
		opts.MissingValueTokens = p.MissingValues
	}
	if p.Thousands != "" {
		opts.ThousandsSeparator = p.Thousands[0]
	}
	if p.Encoding != "" {
		opts.Encoding = p.Encoding
	}
	return opts
}

// bindPageParams reads limit and offset for the table listing.
func (s *Server) bindPageParams(r *http.Request) (pageParams, error) {
	q := r.URL.Query()

	var p pageParams
	var err error
	if q.Has("limit") {
		if p.Limit, err = queryInt(q, "limit"); err != nil {
			return p, err
		}
	}
	if q.Has("offset") {
		if p.Offset, err = queryInt(q, "offset"); err != nil {
			return p, err
		}
	}

	if err := s.validateStruct(p); err != nil {
		return p, err
	}
	return p, nil
}

func queryInt(q url.Values, key string) (int, error) {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidParam, key)
	}
	return n, nil
}

// validateStruct runs the validator and folds all field errors into one
// errInvalidParam.
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", errInvalidParam, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", errInvalidParam, strings.Join(msgs, "; "))
}

// queryNames maps struct fields to the query parameter users send.
var queryNames = map[string]string{
	"SkipHeaderRows": "skip_header_rows",
	"MissingValues":  "na",
	"Thousands":      "thousands",
	"Encoding":       "encoding",
	"Format":         "format",
	"Layout":         "layout",
	"Name":           "name",
	"Source":         "source",
	"Limit":          "limit",
	"Offset":         "offset",
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.StructField()
	if name, ok := queryNames[field]; ok {
		field = name
	} else if i := strings.IndexByte(field, '['); i > 0 {
		// dive errors are reported as MissingValues[3]
		if name, ok := queryNames[field[:i]]; ok {
			field = name + field[i:]
		}
	}

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s character", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "printascii":
		return fmt.Sprintf("%s must be a printable ASCII character", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
