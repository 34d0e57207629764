package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/JonMunkholm/genesis/internal/core"
	"github.com/JonMunkholm/genesis/internal/logging"
	"github.com/JonMunkholm/genesis/internal/store"
)

// TableStore persists parsed tables. *store.Store implements it.
type TableStore interface {
	SaveTable(ctx context.Context, name, source string, t *core.Table) (store.TableInfo, error)
	GetTable(ctx context.Context, id uuid.UUID) (store.TableInfo, *core.Table, error)
	ListTables(ctx context.Context, limit, offset int) ([]store.TableInfo, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

// StoredTableResponse is the JSON body of GET /api/tables/{id}.
type StoredTableResponse struct {
	store.TableInfo
	Table *core.Table `json:"table"`
}

// TableListResponse is the JSON body of GET /api/tables.
type TableListResponse struct {
	Tables []store.TableInfo `json:"tables"`
}

// requireStore rejects table routes when no database is configured.
func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			s.respondError(w, r, errStoreDisabled)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleSaveTable parses the request body and stores the result.
func (s *Server) handleSaveTable(w http.ResponseWriter, r *http.Request) {
	table, params, err := s.parseBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	info, err := s.store.SaveTable(r.Context(), params.Name, params.Source, table)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("table stored",
		"table_id", info.ID,
		"name", info.Name,
		"rows", info.RowCount,
		"user_agent", core.UserAgentFromContext(r.Context()),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	page, err := s.bindPageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tables, err := s.store.ListTables(r.Context(), page.Limit, page.Offset)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if tables == nil {
		tables = []store.TableInfo{}
	}

	render.JSON(w, r, TableListResponse{Tables: tables})
}

// handleGetTable returns a stored table as JSON, CSV or XLSX.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	id, err := tableID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	params := parseParams{Format: q.Get("format"), Layout: q.Get("layout")}
	if params.Format == "" {
		params.Format = FormatJSON
	}
	if err := s.validateStruct(params); err != nil {
		s.respondError(w, r, err)
		return
	}

	info, table, err := s.store.GetTable(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if params.Format == FormatJSON {
		render.JSON(w, r, StoredTableResponse{TableInfo: info, Table: table})
		return
	}
	params.Name = info.Name
	s.writeTable(w, r, table, params)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := tableID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.store.DeleteTable(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("table deleted", "table_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func tableID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id must be a UUID", errInvalidParam)
	}
	return id, nil
}
