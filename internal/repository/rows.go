package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RowFilter keeps only rows whose jsonb field Column equals Value.
type RowFilter struct {
	Column string
	Value  string
}

// RowQuery narrows a row-store read or write.
type RowQuery struct {
	Filters     []RowFilter
	OrderColumn string
	OrderAsc    bool
	Limit       int
}

// PostgresRowRepository stores table rows as jsonb documents in a
// single rows table, keyed by logical table name. Filters and ordering
// address jsonb fields, so any row shape the client writes can be
// queried back the PostgREST way.
type PostgresRowRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresRowRepository creates a new PostgresRowRepository using
// the provided *sql.DB.
func NewPostgresRowRepository(db *sql.DB) *PostgresRowRepository {
	return &PostgresRowRepository{DB: db}
}

// whereClause renders the table + filter conditions with numbered
// parameters, starting after the table-name parameter.
func whereClause(table string, q RowQuery) (string, []any) {
	var b strings.Builder
	args := []any{table}
	b.WriteString("tbl = $1 AND deleted = false")
	for _, f := range q.Filters {
		b.WriteString(" AND data->>$")
		b.WriteString(strconv.Itoa(len(args) + 1))
		b.WriteString(" = $")
		b.WriteString(strconv.Itoa(len(args) + 2))
		args = append(args, f.Column, f.Value)
	}
	return b.String(), args
}

// Select returns the raw jsonb documents matching the query.
func (r *PostgresRowRepository) Select(ctx context.Context, table string, q RowQuery) ([]json.RawMessage, error) {
	where, args := whereClause(table, q)
	query := "SELECT data FROM rows WHERE " + where
	if q.OrderColumn != "" {
		dir := "DESC"
		if q.OrderAsc {
			dir = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY data->>$%d %s", len(args)+1, dir)
		args = append(args, q.OrderColumn)
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, json.RawMessage(data))
	}
	return out, rows.Err()
}

// Insert stores one document under the logical table name.
func (r *PostgresRowRepository) Insert(ctx context.Context, table, id string, data json.RawMessage) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO rows (id, tbl, data) VALUES ($1, $2, $3)`,
		id, table, []byte(data),
	)
	if err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

// Update merges patch into every document matching the query and
// returns how many rows changed.
func (r *PostgresRowRepository) Update(ctx context.Context, table string, patch json.RawMessage, q RowQuery) (int64, error) {
	where, args := whereClause(table, q)
	query := fmt.Sprintf("UPDATE rows SET data = data || $%d::jsonb WHERE %s", len(args)+1, where)
	args = append(args, []byte(patch))

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update rows: %w", err)
	}
	return n, nil
}

// Delete soft-deletes every document matching the query. The cleaner
// purges them after the retention window.
func (r *PostgresRowRepository) Delete(ctx context.Context, table string, q RowQuery) (int64, error) {
	where, args := whereClause(table, q)
	query := "UPDATE rows SET deleted = true, deleted_at = now() WHERE " + where

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete rows: %w", err)
	}
	return n, nil
}

// Count returns how many documents match the query, ignoring its
// limit.
func (r *PostgresRowRepository) Count(ctx context.Context, table string, q RowQuery) (int, error) {
	where, args := whereClause(table, q)
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM rows WHERE "+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
