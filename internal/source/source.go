package source

import (
	"context"
	"errors"
)

// Grid is raw tabular data: a header row followed by zero or more data rows.
// Rows may be ragged; missing trailing cells are treated as empty.
type Grid [][]string

// ErrDataSource marks a failed or malformed fetch from a tabular backend.
// Callers branch with errors.Is.
var ErrDataSource = errors.New("data source failure")

// TabularSource fetches one named table as a raw grid.
type TabularSource interface {
	Fetch(ctx context.Context, table string) (Grid, error)
}

// Header returns the header row, or nil for an empty grid.
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Rows returns the data rows following the header.
func (g Grid) Rows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}
