package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"cartotaco/models"
)

// Source is the read boundary the aggregation pipeline consumes: whole
// tables of flat rows, keyed downstream by est_id.
type Source interface {
	Select(ctx context.Context, table string) ([]models.RawRecord, error)
}

// TableSource reads entire tables into raw rows over database/sql.
type TableSource struct {
	db *sql.DB
}

// NewTableSource wraps an open database handle.
func NewTableSource(db *sql.DB) *TableSource {
	return &TableSource{db: db}
}

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Select fetches every row of table as column-name-to-value maps. The table
// name is interpolated, so it is restricted to identifier characters; the
// caller supplies fixed table names, never user input.
func (s *TableSource) Select(ctx context.Context, table string) ([]models.RawRecord, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}

	var out []models.RawRecord
	for rows.Next() {
		values := make([]interface{}, len(columns))
		targets := make([]interface{}, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		rec := make(models.RawRecord, len(columns))
		for i, col := range columns {
			rec[col] = normalizeValue(values[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// normalizeValue keeps byte slices from aliasing driver buffers.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
