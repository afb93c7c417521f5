// Package testkit builds small deterministic tables for tests and demos.
package testkit

import (
	"time"

	"findash/domain/table"
)

// Day0 is the first date used by fixtures
var Day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Table builds a table from columns and panics on ragged input
func Table(columns ...table.Column) *table.Table {
	return table.MustNew(columns...)
}

// DateStrings returns n consecutive daily dates as ISO text cells, starting at start
func DateStrings(name string, start time.Time, n int) table.Column {
	cells := make([]table.Cell, n)
	for i := range cells {
		cells[i] = table.Text(start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return table.Column{Name: name, Cells: cells}
}

// Dates returns n consecutive daily time cells
func Dates(name string, start time.Time, n int) table.Column {
	cells := make([]table.Cell, n)
	for i := range cells {
		cells[i] = table.Time(start.AddDate(0, 0, i))
	}
	return table.Column{Name: name, Cells: cells}
}

// Numbers returns a numeric column
func Numbers(name string, values ...float64) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.Number(v)
	}
	return table.Column{Name: name, Cells: cells}
}

// Linear returns n values start, start+step, ...
func Linear(name string, start, step float64, n int) table.Column {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + step*float64(i)
	}
	return Numbers(name, values...)
}

// Constant returns n copies of v
func Constant(name string, v float64, n int) table.Column {
	return Linear(name, v, 0, n)
}

// Texts returns a text column; empty strings become missing cells
func Texts(name string, values ...string) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.Text(v)
	}
	return table.Column{Name: name, Cells: cells}
}

// WithMissing returns a copy of col with the given rows blanked
func WithMissing(col table.Column, rows ...int) table.Column {
	out := table.NewColumn(col.Name, col.Cells)
	for _, r := range rows {
		out.Cells[r] = table.Missing()
	}
	return out
}
