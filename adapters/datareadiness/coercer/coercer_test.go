package coercer

import (
	"testing"
	"time"

	"findash/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	c := Default()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"$1,234.50", 1234.5, true},
		{"1,000", 1000, true},
		{"12,5", 12.5, true},
		{"1.234,56", 1234.56, true},
		{"(250)", -250, true},
		{"15%", 15, true},
		{"1e3", 1000, true},
		{"North", 0, false},
		{"2024-01-01", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := c.ParseNumeric(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceColumnKeepsMixedColumnsAsText(t *testing.T) {
	c := Default()

	numeric := c.CoerceColumn("revenue", []interface{}{"100", "", "NA", 102.5, 7})
	assert.True(t, numeric.IsNumeric())
	assert.Equal(t, 2, numeric.MissingCount())
	assert.Equal(t, []float64{100, 102.5, 7}, numeric.Floats())

	mixed := c.CoerceColumn("code", []interface{}{"A1", "17", nil})
	assert.False(t, mixed.IsNumeric())
	assert.True(t, mixed.Cells[1].IsText())
	assert.Equal(t, "17", mixed.Cells[1].String())
	assert.True(t, mixed.Cells[2].IsMissing())
}

func TestParseTimestamp(t *testing.T) {
	c := Default()

	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-05", "03/05/2024", "2024/03/05", "05-Mar-2024", "Mar 5, 2024"} {
		got, ok := c.ParseTimestamp(table.Text(s))
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}

	// Excel display text for short-date and month styles
	twoDigitYears := []struct {
		in   string
		want time.Time
	}{
		{"03-05-24", want},
		{"3/5/24", want},
		{"3/5/24 14:30", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"5-Mar-24", want},
		{"Mar-24", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range twoDigitYears {
		got, ok := c.ParseTimestamp(table.Text(tt.in))
		require.True(t, ok, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, ok := c.ParseTimestamp(table.Number(20240305))
	assert.False(t, ok, "numbers are never dates")

	_, ok = c.ParseTimestamp(table.Text("Q1"))
	assert.False(t, ok)
}

func TestAnalyzeColumn(t *testing.T) {
	c := Default()
	col := table.Column{Name: "when", Cells: []table.Cell{
		table.Text("2024-01-01"), table.Text("2024-01-02"), table.Text("2024-01-03"),
		table.Text("2024-01-04"), table.Text("garbage"),
	}}

	analysis := c.AnalyzeColumn(col)
	assert.Equal(t, 4, analysis.TimestampCount)
	assert.InDelta(t, 0.8, analysis.TimestampRatio, 1e-9)
	assert.True(t, analysis.ParsesAsDates)

	col.Cells[3] = table.Missing()
	assert.False(t, c.AnalyzeColumn(col).ParsesAsDates)
}
