package metrics

import (
	"math"
	"sort"

	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Summary returns descriptive statistics for each numeric column that has data, rounded to 2 dp.
// An empty table or an empty column list yields an empty slice.
func (e *Engine) Summary(t *table.Table, numeric []string) []finance.SummaryRow {
	rows := []finance.SummaryRow{}
	if t.IsEmpty() {
		return rows
	}

	for _, name := range numeric {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		values := col.Floats()
		if len(values) == 0 {
			continue
		}
		rows = append(rows, summarize(name, values))
	}
	return rows
}

func summarize(name string, values []float64) finance.SummaryRow {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)

	row := finance.SummaryRow{
		Column: name,
		Count:  len(values),
		Mean:   round2(mean),
		Min:    round2(min),
		Q25:    round2(quantile(sorted, 0.25)),
		Q50:    round2(quantile(sorted, 0.50)),
		Q75:    round2(quantile(sorted, 0.75)),
		Max:    round2(max),
		Median: round2(median),
	}

	if len(values) >= 2 {
		std, _ := stats.StandardDeviationSample(values)
		row.Std = roundedPtr(std)
	}
	if len(values) >= 3 {
		row.Skewness = roundedPtr(skewness(values, mean))
	}
	if len(values) >= 4 {
		row.Kurtosis = roundedPtr(excessKurtosis(values, mean))
	}
	return row
}

// quantile interpolates linearly between closest ranks of sorted data (h = (n-1)p)
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// centralMoments returns the second, third and fourth population central moments
func centralMoments(values []float64, mean float64) (m2, m3, m4 float64) {
	n := float64(len(values))
	for _, x := range values {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	return m2 / n, m3 / n, m4 / n
}

// skewness is the adjusted Fisher-Pearson coefficient G1; 0 for a constant sample
func skewness(values []float64, mean float64) float64 {
	n := float64(len(values))
	m2, m3, _ := centralMoments(values, mean)
	if m2 <= 1e-14*math.Max(1, mean*mean) {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// excessKurtosis is the bias-corrected G2; 0 for a constant sample
func excessKurtosis(values []float64, mean float64) float64 {
	n := float64(len(values))
	m2, _, m4 := centralMoments(values, mean)
	if m2 <= 1e-14*math.Max(1, mean*mean) {
		return 0
	}
	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundedPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round2(v)
	return &r
}
