package dataset

import (
	"fmt"

	"driftwatch/domain/core"
)

// Table is a collection of named numeric columns of equal length.
// Reference and current snapshots handed to the drift engine are Tables;
// the engine treats them as read-only and never mutates column data.
type Table struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// AddColumn appends a named column. All columns must have the same length;
// the first column fixes the row count.
func (t *Table) AddColumn(name string, values []float64) error {
	if name == "" {
		return core.NewValidationError("column", "name must not be empty")
	}
	if _, exists := t.columns[name]; exists {
		return core.NewValidationError("column", fmt.Sprintf("duplicate column %q", name))
	}
	if len(t.names) > 0 && len(values) != t.rows {
		return core.NewValidationError("column",
			fmt.Sprintf("column %q has %d rows, table has %d", name, len(values), t.rows))
	}
	if len(t.names) == 0 {
		t.rows = len(values)
	}
	t.names = append(t.names, name)
	t.columns[name] = values
	return nil
}

// Columns returns the column names in insertion order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns the values of a named column
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// HasColumn reports whether a column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.names)
}

// Rows materializes the table as row vectors over the given columns.
// With no columns given, all columns are used in insertion order.
func (t *Table) Rows(columns ...string) ([][]float64, error) {
	if len(columns) == 0 {
		columns = t.names
	}
	cols := make([][]float64, len(columns))
	for i, name := range columns {
		col, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
		}
		cols[i] = col
	}
	rows := make([][]float64, t.rows)
	for r := 0; r < t.rows; r++ {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows, nil
}

// SharedColumns returns the column names present in both tables,
// in this table's insertion order, minus any excluded names.
func (t *Table) SharedColumns(other *Table, excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}
	var shared []string
	for _, name := range t.names {
		if skip[name] {
			continue
		}
		if other.HasColumn(name) {
			shared = append(shared, name)
		}
	}
	return shared
}
