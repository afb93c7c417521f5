package finance

import (
	"time"
)

// ============================================================================
// COLUMN CLASSIFICATION
// ============================================================================

// ColumnKind is the role a column plays in the dashboard
type ColumnKind string

const (
	KindDate        ColumnKind = "date"
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Classification maps every column to exactly one kind.
// INVARIANTS:
// - at most one primary date column
// - a name never appears in both Numeric and Categorical
type Classification struct {
	DateColumn  string   `json:"date_column,omitempty"`
	Numeric     []string `json:"numeric_columns"`
	Categorical []string `json:"categorical_columns"`
}

// HasDate reports whether a primary date column was found
func (c Classification) HasDate() bool {
	return c.DateColumn != ""
}

// KindOf returns the kind of a column; unknown names are categorical
func (c Classification) KindOf(name string) ColumnKind {
	if c.DateColumn != "" && name == c.DateColumn {
		return KindDate
	}
	for _, n := range c.Numeric {
		if n == name {
			return KindNumeric
		}
	}
	return KindCategorical
}

// ValidationReport describes a table that passed the validation gate
type ValidationReport struct {
	DateColumn       string   `json:"date_column"`
	FinancialColumns []string `json:"financial_columns,omitempty"`
	Message          string   `json:"message"`
}

// ============================================================================
// METRICS
// ============================================================================

// Metric is a single named scalar
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Metrics keeps insertion order so display order is deterministic
type Metrics []Metric

// Get returns the named metric value
func (m Metrics) Get(name string) (float64, bool) {
	for _, metric := range m {
		if metric.Name == name {
			return metric.Value, true
		}
	}
	return 0, false
}

// Has reports whether the named metric was computed
func (m Metrics) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// SummaryRow holds descriptive statistics of one numeric column, rounded to 2 dp.
// Std, Skewness and Kurtosis are nil when the sample is too small to define them.
type SummaryRow struct {
	Column   string   `json:"column"`
	Count    int      `json:"count"`
	Mean     float64  `json:"mean"`
	Std      *float64 `json:"std"`
	Min      float64  `json:"min"`
	Q25      float64  `json:"q25"`
	Q50      float64  `json:"q50"`
	Q75      float64  `json:"q75"`
	Max      float64  `json:"max"`
	Median   float64  `json:"median"`
	Skewness *float64 `json:"skewness"`
	Kurtosis *float64 `json:"kurtosis"`
}

// TrendSummary is the first-to-last movement of a series over time
type TrendSummary struct {
	Column          string  `json:"column"`
	Trend           string  `json:"trend"`
	Description     string  `json:"description"`
	ChangePct       float64 `json:"change_pct"`
	Average         float64 `json:"average"`
	Volatility      float64 `json:"volatility"`
	VolatilityLevel string  `json:"volatility_level,omitempty"`
}

// CategoryShare is one slice of a categorical breakdown
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
	Sum      float64 `json:"sum"`
}

// CategoryBreakdown groups a numeric column by the values of a categorical column
type CategoryBreakdown struct {
	CategoryColumn string          `json:"category_column"`
	ValueColumn    string          `json:"value_column,omitempty"`
	Shares         []CategoryShare `json:"shares"`
}

// ============================================================================
// PREDICTION
// ============================================================================

// TrendLabel is the qualitative direction of a forecast
type TrendLabel string

const (
	TrendStrongUp   TrendLabel = "strong up"
	TrendSlightUp   TrendLabel = "slight up"
	TrendStable     TrendLabel = "stable"
	TrendSlightDown TrendLabel = "slight down"
	TrendStrongDown TrendLabel = "strong down"
)

// ForecastPoint is one projected day with its error band
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Prediction is the outcome of a linear trend projection
type Prediction struct {
	Column            string          `json:"column"`
	Days              int             `json:"days"`
	AveragePrediction float64         `json:"average_prediction"`
	LastValue         float64         `json:"last_value"`
	PercentChange     float64         `json:"percent_change"`
	Trend             TrendLabel      `json:"trend"`
	Description       string          `json:"description"`
	ErrorBound        float64         `json:"error_bound"` // ±2σ of in-sample residuals
	Slope             float64         `json:"slope"`
	Intercept         float64         `json:"intercept"`
	Points            []ForecastPoint `json:"points"`
}

// ============================================================================
// HEALTH
// ============================================================================

// HealthFeature names an input of the composite score
type HealthFeature string

const (
	FeatureRevenueTrend      HealthFeature = "Revenue Trend"
	FeatureExpenseTrend      HealthFeature = "Expense Trend"
	FeatureProfitMarginTrend HealthFeature = "Profit Margin Trend"
	FeatureVolatility        HealthFeature = "Volatility"
)

// Contribution is one feature's share of the composite score
type Contribution struct {
	Feature      HealthFeature `json:"feature"`
	Raw          float64       `json:"raw"`
	Clipped      float64       `json:"clipped"`
	Weight       float64       `json:"weight"`
	Contribution float64       `json:"contribution"`
}

// HealthScore is the bounded composite score. Score is nil when it cannot be computed.
type HealthScore struct {
	Score         *int           `json:"score"`
	Label         string         `json:"label,omitempty"`
	Description   string         `json:"description"`
	Composite     float64        `json:"composite"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Available reports whether a numeric score was produced
func (h HealthScore) Available() bool {
	return h.Score != nil
}
