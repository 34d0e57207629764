package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/genesis/internal/core"
	"github.com/JonMunkholm/genesis/internal/export"
	"github.com/JonMunkholm/genesis/internal/logging"
)

// SummaryResponse is the body of POST /api/parse/summary.
type SummaryResponse struct {
	Rows    int                    `json:"rows"`
	Columns []export.ColumnSummary `json:"columns"`
}

// handleParse parses the request body and writes the table in the
// requested format.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	table, params, err := s.parseBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeTable(w, r, table, params)
}

// handleSummary parses the request body and returns per-column statistics.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	table, _, err := s.parseBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, SummaryResponse{
		Rows:    table.NumRows(),
		Columns: export.Summarize(table),
	})
}

// parseBody binds the query parameters, waits for a parse slot and parses
// the request body.
func (s *Server) parseBody(r *http.Request) (*core.Table, parseParams, error) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	params, err := s.bindParseParams(r)
	if err != nil {
		return nil, params, err
	}

	opts := params.options(s.opts)
	parser, err := core.NewParser(opts, logger)
	if err != nil {
		return nil, params, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, params, err
	}
	defer s.limiter.Release()

	start := time.Now()
	text, n, err := core.ReadInput(r.Body, opts)
	if err == nil && n == 0 {
		err = errEmptyInput
	}
	if err != nil {
		s.metrics.ObserveParse(time.Since(start), n, 0, err)
		return nil, params, err
	}

	table, err := parser.Parse(text)
	rows := 0
	if table != nil {
		rows = table.NumRows()
	}
	s.metrics.ObserveParse(time.Since(start), n, rows, err)
	if err != nil {
		return nil, params, err
	}

	logger.Info("export parsed",
		"bytes", n,
		"columns", table.NumCols(),
		"rows", rows,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return table, params, nil
}

// writeTable encodes t as JSON, CSV or XLSX.
func (s *Server) writeTable(w http.ResponseWriter, r *http.Request, t *core.Table, p parseParams) {
	switch p.Format {
	case FormatCSV:
		opts := export.CSVOptions{}
		if p.Layout == "de" {
			opts = export.CSVOptions{Comma: ';', DecimalComma: true, BOM: true}
		}

		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, t, opts); err != nil {
			s.respondError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(p.Name, "csv"))
		w.Write(buf.Bytes())

	case FormatXLSX:
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, t, export.XLSXOptions{SheetName: p.Name}); err != nil {
			s.respondError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", attachment(p.Name, "xlsx"))
		w.Write(buf.Bytes())

	default:
		render.JSON(w, r, t)
	}
}

// attachment builds a Content-Disposition header for a download.
func attachment(name, ext string) string {
	if name == "" {
		name = "table"
	}
	return fmt.Sprintf("attachment; filename=%q", safeFilename(name)+"."+ext)
}

// safeFilename keeps letters, digits, '-' and '_'; everything else becomes '_'.
func safeFilename(name string) string {
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}
