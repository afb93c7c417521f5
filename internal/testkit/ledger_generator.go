package testkit

import (
	"math/rand"
	"time"

	"findash/domain/table"
)

// LedgerGeneratorConfig configures the synthetic daily ledger
type LedgerGeneratorConfig struct {
	Days          int       `json:"days"`
	StartDate     time.Time `json:"start_date"`
	RevenueBase   float64   `json:"revenue_base"`
	RevenueGrowth float64   `json:"revenue_growth"` // absolute change per day
	ExpenseRatio  float64   `json:"expense_ratio"`  // expenses as a share of revenue
	Noise         float64   `json:"noise"`          // relative noise amplitude
	MissingRate   float64   `json:"missing_rate"`   // share of numeric cells blanked
	Regions       []string  `json:"regions"`
	Seed          int64     `json:"seed"`
}

// DefaultLedgerConfig returns sensible defaults for ledger generation
func DefaultLedgerConfig() LedgerGeneratorConfig {
	return LedgerGeneratorConfig{
		Days:          90,
		StartDate:     Day0,
		RevenueBase:   1000,
		RevenueGrowth: 5,
		ExpenseRatio:  0.6,
		Noise:         0.05,
		Regions:       []string{"North", "South", "East", "West"},
		Seed:          42,
	}
}

// LedgerGenerator produces daily revenue/expense/cash tables
type LedgerGenerator struct {
	config LedgerGeneratorConfig
	rng    *rand.Rand
}

// NewLedgerGenerator creates a generator with a deterministic seed
func NewLedgerGenerator(config LedgerGeneratorConfig) *LedgerGenerator {
	return &LedgerGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns a raw table shaped like an uploaded spreadsheet: dates as text,
// columns date, region, revenue, expenses, cash_balance.
func (g *LedgerGenerator) Generate() *table.Table {
	n := g.config.Days
	dates := DateStrings("date", g.config.StartDate, n)
	region := make([]table.Cell, n)
	revenue := make([]table.Cell, n)
	expenses := make([]table.Cell, n)
	cash := make([]table.Cell, n)

	balance := g.config.RevenueBase * 10
	for i := 0; i < n; i++ {
		if len(g.config.Regions) > 0 {
			region[i] = table.Text(g.config.Regions[i%len(g.config.Regions)])
		} else {
			region[i] = table.Missing()
		}

		rev := (g.config.RevenueBase + g.config.RevenueGrowth*float64(i)) * g.jitter()
		exp := rev * g.config.ExpenseRatio * g.jitter()
		balance += rev - exp

		revenue[i] = g.maybeMissing(rev)
		expenses[i] = g.maybeMissing(exp)
		cash[i] = g.maybeMissing(balance)
	}

	return Table(
		dates,
		table.Column{Name: "region", Cells: region},
		table.Column{Name: "revenue", Cells: revenue},
		table.Column{Name: "expenses", Cells: expenses},
		table.Column{Name: "cash_balance", Cells: cash},
	)
}

func (g *LedgerGenerator) jitter() float64 {
	return 1 + (g.rng.Float64()*2-1)*g.config.Noise
}

func (g *LedgerGenerator) maybeMissing(v float64) table.Cell {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		return table.Missing()
	}
	return table.Number(v)
}
