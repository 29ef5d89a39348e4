// Package table holds the row-oriented tabular structure the pipeline reads.
//
// A Table is a named, ordered column list plus rows keyed by column name.
// A cell that is absent from a Row, or holds nil, is null. Collaborators
// hand the pipeline already-parsed cells: string, int64, float64,
// time.Time or nil.
package table

import (
	"slices"
)

// Row is one record keyed by column name.
type Row map[string]any

// Table is an in-memory tabular dataset.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: slices.Clone(columns)}
}

// Append adds a row and returns the table for chaining.
func (t *Table) Append(r Row) *Table {
	t.Rows = append(t.Rows, r)
	return t
}

// Has reports whether the table declares column.
func (t *Table) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Len returns the number of rows; a nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Get returns the cell of row i at column and whether it is non-null.
func (t *Table) Get(i int, column string) (any, bool) {
	v, ok := t.Rows[i][column]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Project returns a new table restricted to columns, in that order.
// Missing columns are reported through the second return value.
func (t *Table) Project(columns ...string) (*Table, string) {
	for _, c := range columns {
		if !t.Has(c) {
			return nil, c
		}
	}
	out := New(t.Name, columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		out.Rows[i] = nr
	}
	return out, ""
}

// Clone returns a deep copy of the table structure. Cell values are
// immutable scalars and are shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := New(t.Name, t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}
