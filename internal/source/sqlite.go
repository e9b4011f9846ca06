package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SQLiteSource surfaces sqlite tables as raw grids so the whole pipeline can
// run against a local database instead of the remote spreadsheet. Column
// names become the header row and every value is rendered as text, which
// keeps normalization identical across backends.
type SQLiteSource struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteSource wraps an open database pool.
func NewSQLiteSource(db *sql.DB, logger *zap.Logger) *SQLiteSource {
	if db == nil {
		panic("db must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteSource{db: db, logger: logger.Named("sqlite-source")}
}

// Fetch reads every row of the named table.
func (s *SQLiteSource) Fetch(ctx context.Context, table string) (Grid, error) {
	ident, err := quoteIdent(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+ident)
	if err != nil {
		return nil, fmt.Errorf("%w: query table %q: %v", ErrDataSource, table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns of table %q: %v", ErrDataSource, table, err)
	}

	grid := Grid{append([]string(nil), cols...)}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan table %q: %v", ErrDataSource, table, err)
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				cells[i] = v.String
			}
		}
		grid = append(grid, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate table %q: %v", ErrDataSource, table, err)
	}

	s.logger.Debug("table fetched",
		zap.String("table", table),
		zap.Int("rows", len(grid)-1))
	return grid, nil
}

// quoteIdent quotes a table name for sqlite. Table names come from
// configuration, not user input, but quoting keeps odd sheet-style names
// like "Coaching Tips" usable.
func quoteIdent(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty table name")
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}
