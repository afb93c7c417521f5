package metrics

import (
	"testing"

	"findash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryStatistics(t *testing.T) {
	tbl := testkit.Table(testkit.Numbers("x", 5, 1, 4, 2, 3))

	rows := NewEngine().Summary(tbl, []string{"x"})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 5, row.Count)
	assert.Equal(t, 3.0, row.Mean)
	require.NotNil(t, row.Std)
	assert.Equal(t, 1.58, *row.Std)
	assert.Equal(t, 1.0, row.Min)
	assert.Equal(t, 2.0, row.Q25)
	assert.Equal(t, 3.0, row.Q50)
	assert.Equal(t, 4.0, row.Q75)
	assert.Equal(t, 5.0, row.Max)
	assert.Equal(t, 3.0, row.Median)
	require.NotNil(t, row.Skewness)
	assert.Equal(t, 0.0, *row.Skewness)
	require.NotNil(t, row.Kurtosis)
	assert.Equal(t, -1.2, *row.Kurtosis)
}

func TestSummaryShapeOfSkewedSample(t *testing.T) {
	tbl := testkit.Table(testkit.Numbers("x", 1, 2, 3, 10))

	row := NewEngine().Summary(tbl, []string{"x"})[0]

	assert.Equal(t, 1.76, *row.Skewness)
	assert.Equal(t, 3.23, *row.Kurtosis)
	assert.Equal(t, 1.75, row.Q25)
	assert.Equal(t, 4.75, row.Q75)
}

func TestSummaryUndefinedMoments(t *testing.T) {
	tests := []struct {
		name                     string
		values                   []float64
		hasStd, hasSkew, hasKurt bool
	}{
		{"one value", []float64{7}, false, false, false},
		{"two values", []float64{7, 8}, true, false, false},
		{"three values", []float64{1, 2, 10}, true, true, false},
		{"four values", []float64{1, 2, 3, 10}, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := testkit.Table(testkit.Numbers("x", tt.values...))
			row := NewEngine().Summary(tbl, []string{"x"})[0]
			assert.Equal(t, tt.hasStd, row.Std != nil)
			assert.Equal(t, tt.hasSkew, row.Skewness != nil)
			assert.Equal(t, tt.hasKurt, row.Kurtosis != nil)
		})
	}
}

func TestSummaryConstantColumn(t *testing.T) {
	tbl := testkit.Table(testkit.Constant("flat", 4, 6))

	row := NewEngine().Summary(tbl, []string{"flat"})[0]

	assert.Equal(t, 0.0, *row.Std)
	assert.Equal(t, 0.0, *row.Skewness)
	assert.Equal(t, 0.0, *row.Kurtosis)
}

func TestSummaryEmptyInputs(t *testing.T) {
	e := NewEngine()

	assert.Empty(t, e.Summary(nil, []string{"x"}))
	assert.NotNil(t, e.Summary(nil, nil))

	tbl := testkit.Table(testkit.Texts("region", "N", "S"))
	assert.Empty(t, e.Summary(tbl, nil))
}

func TestSummaryRoundsToTwoPlaces(t *testing.T) {
	tbl := testkit.Table(testkit.Numbers("x", 1, 2, 2))

	row := NewEngine().Summary(tbl, []string{"x"})[0]

	assert.Equal(t, 1.67, row.Mean)
	assert.Equal(t, 0.58, *row.Std)
}
