package filter

import (
	"testing"
	"time"

	"findash/domain/table"
	"findash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledger() *table.Table {
	return testkit.Table(
		testkit.Dates("date", testkit.Day0, 6),
		testkit.Texts("region", "N", "S", "N", "E", "S", "N"),
		testkit.Linear("revenue", 10, 10, 6),
	)
}

func TestByDateRangeIsInclusive(t *testing.T) {
	tbl := ledger()
	r := DateRange{
		From: testkit.Day0.AddDate(0, 0, 1),
		To:   testkit.Day0.AddDate(0, 0, 3).Add(5 * time.Hour),
	}

	out := ByDateRange(tbl, "date", r)

	rev, _ := out.Column("revenue")
	assert.Equal(t, []float64{20, 30, 40}, rev.Floats())
	assert.Equal(t, 6, tbl.Len(), "input is untouched")
}

func TestByDateRangeOpenBounds(t *testing.T) {
	tbl := ledger()

	out := ByDateRange(tbl, "date", DateRange{From: testkit.Day0.AddDate(0, 0, 4)})
	assert.Equal(t, 2, out.Len())

	out = ByDateRange(tbl, "date", DateRange{To: testkit.Day0})
	assert.Equal(t, 1, out.Len())
}

func TestByDateRangeKeepsInputWhenNothingMatches(t *testing.T) {
	tbl := ledger()
	r := DateRange{From: testkit.Day0.AddDate(1, 0, 0)}

	assert.Same(t, tbl, ByDateRange(tbl, "date", r))
	assert.Same(t, tbl, ByDateRange(tbl, "nope", r))
	assert.Same(t, tbl, ByDateRange(tbl, "date", DateRange{}))
}

func TestByCategory(t *testing.T) {
	tbl := ledger()

	tests := []struct {
		name   string
		values []string
		want   []float64
	}{
		{"single", []string{"N"}, []float64{10, 30, 60}},
		{"several", []string{"S", "E"}, []float64{20, 40, 50}},
		{"empty selection keeps all", nil, []float64{10, 20, 30, 40, 50, 60}},
		{"no match keeps all", []string{"W"}, []float64{10, 20, 30, 40, 50, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ByCategory(tbl, "region", tt.values)
			rev, _ := out.Column("revenue")
			assert.Equal(t, tt.want, rev.Floats())
		})
	}
}

func TestCategoriesAndBounds(t *testing.T) {
	tbl := ledger()

	assert.Equal(t, []string{"N", "S", "E"}, Categories(tbl, "region"))

	from, to, ok := Bounds(tbl, "date")
	require.True(t, ok)
	assert.Equal(t, testkit.Day0, from)
	assert.Equal(t, testkit.Day0.AddDate(0, 0, 5), to)

	_, _, ok = Bounds(tbl, "region")
	assert.False(t, ok)
}
