package store

import (
	"context"
	"fmt"
)

// schema creates the two tables parsed exports are stored in. Each
// statement is idempotent, so Migrate runs on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS parsed_tables (
		id         uuid PRIMARY KEY,
		name       text NOT NULL,
		source     text,
		client_ip  text,
		columns    jsonb NOT NULL,
		row_count  integer NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS parsed_tables_created_at_idx
		ON parsed_tables (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS parsed_table_rows (
		table_id uuid NOT NULL REFERENCES parsed_tables (id) ON DELETE CASCADE,
		row_num  integer NOT NULL,
		cells    jsonb NOT NULL,
		PRIMARY KEY (table_id, row_num)
	)`,
}

// Migrate creates the store schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
