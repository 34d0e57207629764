// Package store persists parsed tables in PostgreSQL.
//
// A table is stored as one parsed_tables row holding its metadata and
// column names, plus one parsed_table_rows row per data row with the cells
// encoded as a JSON array. Rows are written with COPY inside the same
// transaction as the metadata, so a table is either stored completely or
// not at all.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/genesis/internal/core"
)

// ErrTableNotFound is returned when no stored table has the requested id.
var ErrTableNotFound = errors.New("table not found")

// ErrInvalidName is returned by SaveTable for an empty table name.
var ErrInvalidName = errors.New("invalid parameter: table name is required")

// MaxListLimit caps a single ListTables page.
const MaxListLimit = 500

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// DB is a DBTX that can also start transactions.
type DB interface {
	DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// TableInfo is the metadata of a stored table.
type TableInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Columns   []string  `json:"columns"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes parsed tables.
type Store struct {
	db DB
}

// New returns a Store backed by db, typically a *pgxpool.Pool.
func New(db DB) *Store {
	return &Store{db: db}
}

// SaveTable stores t under a new id. source is free text describing where
// the export came from (a file name or GENESIS table code); the client IP
// is taken from ctx when present.
func (s *Store) SaveTable(ctx context.Context, name, source string, t *core.Table) (TableInfo, error) {
	name = normalizeName(name)
	if name == "" {
		return TableInfo{}, ErrInvalidName
	}

	columns, err := json.Marshal(t.Columns)
	if err != nil {
		return TableInfo{}, fmt.Errorf("encode columns: %w", err)
	}
	rows, err := encodeRows(t)
	if err != nil {
		return TableInfo{}, err
	}

	info := TableInfo{
		ID:       uuid.New(),
		Name:     name,
		Source:   source,
		ClientIP: core.ClientIPFromContext(ctx),
		Columns:  t.Columns,
		RowCount: len(rows),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return TableInfo{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO parsed_tables (id, name, source, client_ip, columns, row_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		toPgUUID(info.ID), info.Name, toPgText(source), toPgText(info.ClientIP), columns, info.RowCount,
	).Scan(&info.CreatedAt)
	if err != nil {
		return TableInfo{}, fmt.Errorf("insert table: %w", err)
	}

	pgID := toPgUUID(info.ID)
	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"parsed_table_rows"},
		[]string{"table_id", "row_num", "cells"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{pgID, int32(i), rows[i]}, nil
		}),
	)
	if err != nil {
		return TableInfo{}, fmt.Errorf("copy rows: %w", err)
	}
	if copied != int64(len(rows)) {
		return TableInfo{}, fmt.Errorf("copy rows: wrote %d of %d", copied, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return TableInfo{}, fmt.Errorf("commit: %w", err)
	}
	return info, nil
}

const selectInfo = `SELECT id, name, source, client_ip, columns, row_count, created_at FROM parsed_tables`

// GetTable loads a stored table and its metadata.
func (s *Store) GetTable(ctx context.Context, id uuid.UUID) (TableInfo, *core.Table, error) {
	info, err := scanInfo(s.db.QueryRow(ctx, selectInfo+` WHERE id = $1`, toPgUUID(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return TableInfo{}, nil, ErrTableNotFound
	}
	if err != nil {
		return TableInfo{}, nil, fmt.Errorf("get table %s: %w", id, err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT cells FROM parsed_table_rows WHERE table_id = $1 ORDER BY row_num`,
		toPgUUID(id),
	)
	if err != nil {
		return TableInfo{}, nil, fmt.Errorf("get rows of %s: %w", id, err)
	}
	encoded, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return TableInfo{}, nil, fmt.Errorf("read rows of %s: %w", id, err)
	}

	t, err := decodeRows(info.Columns, encoded)
	if err != nil {
		return TableInfo{}, nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return info, t, nil
}

// ListTables returns stored tables, newest first. limit is clamped to
// [1, MaxListLimit].
func (s *Store) ListTables(ctx context.Context, limit, offset int) ([]TableInfo, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.db.Query(ctx,
		selectInfo+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TableInfo, error) {
		return scanInfo(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return infos, nil
}

// DeleteTable removes a stored table and its rows.
func (s *Store) DeleteTable(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM parsed_tables WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTableNotFound
	}
	return nil
}

func scanInfo(row pgx.Row) (TableInfo, error) {
	var (
		info     TableInfo
		id       pgtype.UUID
		source   pgtype.Text
		clientIP pgtype.Text
		columns  []byte
		rowCount int32
	)
	if err := row.Scan(&id, &info.Name, &source, &clientIP, &columns, &rowCount, &info.CreatedAt); err != nil {
		return TableInfo{}, err
	}
	if err := json.Unmarshal(columns, &info.Columns); err != nil {
		return TableInfo{}, fmt.Errorf("decode columns: %w", err)
	}
	info.ID = fromPgUUID(id)
	info.Source = fromPgText(source)
	info.ClientIP = fromPgText(clientIP)
	info.RowCount = int(rowCount)
	return info, nil
}

// encodeRows renders each row as a JSON array of cells.
func encodeRows(t *core.Table) ([][]byte, error) {
	out := make([][]byte, len(t.Rows))
	for i, row := range t.Rows {
		b, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// decodeRows rebuilds a table from encodeRows output and checks row width.
func decodeRows(columns []string, encoded [][]byte) (*core.Table, error) {
	t := &core.Table{Columns: columns, Rows: make([][]core.Cell, len(encoded))}
	for i, b := range encoded {
		var row []core.Cell
		if err := json.Unmarshal(b, &row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d: has %d cells, expected %d", i, len(row), len(columns))
		}
		t.Rows[i] = row
	}
	return t, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func normalizeName(name string) string {
	return toPgText(name).String
}
