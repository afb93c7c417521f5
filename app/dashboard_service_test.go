package app

import (
	"context"
	"testing"

	"findash/domain/core"
	"findash/domain/table"
	"findash/internal"
	"findash/internal/errors"
	"findash/internal/filter"
	"findash/internal/testkit"
	"findash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *DashboardService {
	return NewDashboardService(nil, internal.NewLogger(internal.LogLevelError), 0)
}

func ledger(days int) *table.Table {
	cfg := testkit.DefaultLedgerConfig()
	cfg.Days = days
	cfg.MissingRate = 0.05
	return testkit.NewLedgerGenerator(cfg).Generate()
}

func TestPrepareCleansAndClassifies(t *testing.T) {
	raw := ledger(60)

	p, err := newService().Prepare(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "date", p.Classification.DateColumn)
	assert.Equal(t, []string{"revenue", "expenses", "cash_balance"}, p.Classification.Numeric)
	assert.Equal(t, []string{"region"}, p.Classification.Categorical)
	assert.Contains(t, p.Validation.FinancialColumns, "revenue")

	for _, name := range p.Classification.Numeric {
		col, _ := p.Table.Column(name)
		assert.Zero(t, col.MissingCount(), name)
	}
	date, _ := p.Table.Column("date")
	assert.True(t, date.Cells[0].IsTime())

	rawDate, _ := raw.Column("date")
	assert.True(t, rawDate.Cells[0].IsText(), "raw table is untouched")
}

func TestPrepareSortsByDateWithUndatedRowsLast(t *testing.T) {
	raw := testkit.Table(
		testkit.Texts("date", "2024-01-03", "not a date", "2024-01-01", "2024-01-02", "2024-01-05", "2024-01-04"),
		testkit.Numbers("amount", 3, 99, 1, 2, 5, 4),
	)

	p, err := newService().Prepare(context.Background(), raw)
	require.NoError(t, err)

	amount, _ := p.Table.Column("amount")
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 99}, amount.Floats())
	date, _ := p.Table.Column("date")
	assert.True(t, date.Cells[5].IsMissing())
}

func TestPrepareRejectsInvalidTables(t *testing.T) {
	raw := testkit.Table(testkit.Texts("region", "N", "S"), testkit.Numbers("amount", 1, 2))

	_, err := newService().Prepare(context.Background(), raw)

	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestAnalyzeBuildsDashboard(t *testing.T) {
	svc := newService()
	p, err := svc.Prepare(context.Background(), ledger(90))
	require.NoError(t, err)

	d, err := svc.Analyze(context.Background(), p, AnalyzeRequest{Days: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID.String())
	assert.Equal(t, ledger(90).Fingerprint(), d.SourceFingerprint)
	assert.Equal(t, 90, d.Rows)
	require.NotNil(t, d.From)
	assert.Equal(t, testkit.Day0, *d.From)
	assert.Len(t, d.Summary, 3)
	assert.True(t, d.Metrics.Has("Total Revenue"))
	assert.True(t, d.Metrics.Has("Net Profit"))
	assert.Len(t, d.Trends, 3)
	require.Len(t, d.Breakdowns, 1)
	assert.Equal(t, "revenue", d.Breakdowns[0].ValueColumn)
	assert.Len(t, d.Breakdowns[0].Shares, 4)
	require.Len(t, d.Predictions, 3)
	for _, pred := range d.Predictions {
		assert.True(t, pred.Available, pred.Column)
		assert.Len(t, pred.Prediction.Points, 7)
	}
	assert.True(t, d.Health.Available())
}

func TestAnalyzeAppliesFilters(t *testing.T) {
	svc := newService()
	p, err := svc.Prepare(context.Background(), ledger(40))
	require.NoError(t, err)

	d, err := svc.Analyze(context.Background(), p, AnalyzeRequest{
		DateRange:      filter.DateRange{From: testkit.Day0, To: testkit.Day0.AddDate(0, 0, 19)},
		CategoryColumn: "region",
		Categories:     []string{"North"},
		SkipPredict:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, d.Rows)
	assert.Empty(t, d.Predictions)
	assert.False(t, d.Health.Available(), "five rows are too few for a score")
	assert.True(t, d.Metrics.Has("Avg revenue"), "basic metrics need no minimum")
}

func TestAnalyzeSmallTableReportsInsufficientData(t *testing.T) {
	svc := newService()
	raw := testkit.Table(testkit.DateStrings("date", testkit.Day0, 5), testkit.Linear("revenue", 100, 2, 5))
	p, err := svc.Prepare(context.Background(), raw)
	require.NoError(t, err)

	d, err := svc.Analyze(context.Background(), p, AnalyzeRequest{})
	require.NoError(t, err)

	require.Len(t, d.Predictions, 1)
	assert.False(t, d.Predictions[0].Available)
	assert.Contains(t, d.Predictions[0].Note, "at least 10")
	assert.Nil(t, d.Health.Score)
	assert.True(t, d.Metrics.Has("revenue Volatility"))
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	svc := newService()
	p, err := svc.Prepare(context.Background(), ledger(20))
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), p, AnalyzeRequest{PredictColumns: []string{"region"}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.Analyze(context.Background(), p, AnalyzeRequest{Days: 400})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.Analyze(context.Background(), nil, AnalyzeRequest{})
	assert.Error(t, err)
}

func TestPredictSingleColumn(t *testing.T) {
	svc := NewDashboardService(nil, internal.NewLogger(internal.LogLevelError), 14)
	p, err := svc.Prepare(context.Background(), ledger(30))
	require.NoError(t, err)

	out, err := svc.Predict(context.Background(), p, "revenue", 0)
	require.NoError(t, err)
	assert.True(t, out.Available)
	assert.Equal(t, 14, out.Prediction.Days)

	_, err = svc.Predict(context.Background(), p, "nope", 7)
	assert.True(t, core.IsInvalidInput(err))
}

func TestLoadUsesReader(t *testing.T) {
	reader := ports.TableReaderFunc(func(ctx context.Context) (*table.Table, error) {
		return ledger(12), nil
	})

	p, err := newService().Load(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Table.Len())
}
