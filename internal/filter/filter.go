// Package filter narrows a cleaned table by date range or category before analysis.
// A filter that cannot apply, or that would leave no rows, returns its input unchanged.
package filter

import (
	"time"

	"findash/domain/table"
)

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether d falls within the range by calendar date
func (r DateRange) Contains(d time.Time) bool {
	day := calendarDay(d)
	if !r.From.IsZero() && day.Before(calendarDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(calendarDay(r.To)) {
		return false
	}
	return true
}

// ByDateRange keeps the rows whose date falls within r. Rows without a date are dropped
// when a bound is set.
func ByDateRange(t *table.Table, dateCol string, r DateRange) *table.Table {
	col, ok := t.Column(dateCol)
	if !ok || r.IsZero() {
		return t
	}

	var rows []int
	for i, cell := range col.Cells {
		if d, ok := cell.Timestamp(); ok && r.Contains(d) {
			rows = append(rows, i)
		}
	}
	return selectOrKeep(t, rows)
}

// ByCategory keeps the rows whose value in col is one of values
func ByCategory(t *table.Table, col string, values []string) *table.Table {
	c, ok := t.Column(col)
	if !ok || len(values) == 0 {
		return t
	}

	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}

	var rows []int
	for i, cell := range c.Cells {
		if _, ok := wanted[cell.String()]; ok && !cell.IsMissing() {
			rows = append(rows, i)
		}
	}
	return selectOrKeep(t, rows)
}

// Categories returns the distinct non-missing values of col in first-seen order
func Categories(t *table.Table, col string) []string {
	c, ok := t.Column(col)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			continue
		}
		v := cell.String()
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Bounds returns the earliest and latest dates of dateCol
func Bounds(t *table.Table, dateCol string) (from, to time.Time, ok bool) {
	col, found := t.Column(dateCol)
	if !found {
		return time.Time{}, time.Time{}, false
	}
	for _, cell := range col.Cells {
		d, has := cell.Timestamp()
		if !has {
			continue
		}
		if !ok || d.Before(from) {
			from = d
		}
		if !ok || d.After(to) {
			to = d
		}
		ok = true
	}
	return from, to, ok
}

func selectOrKeep(t *table.Table, rows []int) *table.Table {
	if len(rows) == 0 || len(rows) == t.Len() {
		return t
	}
	return t.SelectRows(rows)
}

func calendarDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
