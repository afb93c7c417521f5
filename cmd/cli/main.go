package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"findash/adapters/excel"
	"findash/app"
	"findash/internal/config"
	"findash/internal/container"
	"findash/internal/filter"
	"findash/internal/report"
	"findash/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "findash",
		Short:         "Financial dashboard analysis for CSV and Excel ledgers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newAnalyzeCmd(),
		newExportCmd(),
		newSampleCmd(),
	)
	return rootCmd
}

// loadContainer reads .env and FINDASH_* settings
func loadContainer() (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func loadPrepared(ctx context.Context, path string) (*container.Container, *app.PreparedTable, error) {
	c, err := loadContainer()
	if err != nil {
		return nil, nil, err
	}
	p, err := c.Service.Load(ctx, c.FileReader(path))
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a CSV or XLSX file holds usable financial data",
		Long: `Validate a ledger file and print its column roles.

Example: findash validate ledger.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPrepared(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeValidation(cmd.OutOrStdout(), p)
		},
	}
}

func writeValidation(w io.Writer, p *app.PreparedTable) error {
	fmt.Fprintln(w, p.Validation.Message)
	fmt.Fprintf(w, "Rows: %d\n", p.Table.Len())
	fmt.Fprintf(w, "Date column: %s\n", p.Classification.DateColumn)
	fmt.Fprintf(w, "Numeric columns: %s\n", strings.Join(p.Classification.Numeric, ", "))
	fmt.Fprintf(w, "Categorical columns: %s\n", strings.Join(p.Classification.Categorical, ", "))
	for _, f := range p.Imputation.Fills {
		fmt.Fprintf(w, "Filled %d missing values in %s with %s (%s)\n", f.Filled, f.Column, f.Value, f.Strategy)
	}
	return nil
}

type analyzeOptions struct {
	from           string
	to             string
	categoryColumn string
	categories     []string
	predict        []string
	days           int
	noPredict      bool
	format         string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Build the dashboard for a ledger file",
		Long: `Compute summary statistics, financial metrics, trends, category breakdowns,
predictions and the health score for a ledger file.

Example: findash analyze ledger.xlsx --from 2024-01-01 --category-column region --categories North,South --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			if opts.format != "json" && opts.format != "markdown" && opts.format != "html" {
				return fmt.Errorf("unknown format %q (use json, markdown or html)", opts.format)
			}

			c, p, err := loadPrepared(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d, err := c.Service.Analyze(cmd.Context(), p, req)
			if err != nil {
				return err
			}
			return writeDashboard(cmd.OutOrStdout(), d, opts.format)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.categoryColumn, "category-column", "", "Categorical column to filter on")
	cmd.Flags().StringSliceVar(&opts.categories, "categories", nil, "Values of --category-column to keep")
	cmd.Flags().StringSliceVar(&opts.predict, "predict", nil, "Numeric columns to project (default: all)")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Days to project (default: FINDASH_ANALYSIS_DEFAULT_HORIZON)")
	cmd.Flags().BoolVar(&opts.noPredict, "no-predict", false, "Skip predictions")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json|markdown|html")
	return cmd
}

func (o analyzeOptions) request() (app.AnalyzeRequest, error) {
	var dr filter.DateRange
	var err error
	if o.from != "" {
		if dr.From, err = time.Parse(dateLayout, o.from); err != nil {
			return app.AnalyzeRequest{}, fmt.Errorf("invalid --from (use YYYY-MM-DD): %w", err)
		}
	}
	if o.to != "" {
		if dr.To, err = time.Parse(dateLayout, o.to); err != nil {
			return app.AnalyzeRequest{}, fmt.Errorf("invalid --to (use YYYY-MM-DD): %w", err)
		}
	}
	if len(o.categories) > 0 && o.categoryColumn == "" {
		return app.AnalyzeRequest{}, fmt.Errorf("--categories needs --category-column")
	}
	return app.AnalyzeRequest{
		DateRange:      dr,
		CategoryColumn: o.categoryColumn,
		Categories:     o.categories,
		PredictColumns: o.predict,
		Days:           o.days,
		SkipPredict:    o.noPredict,
	}, nil
}

func writeDashboard(w io.Writer, d *app.Dashboard, format string) error {
	switch format {
	case "markdown":
		_, err := io.WriteString(w, report.Markdown(d))
		return err
	case "html":
		_, err := w.Write(report.HTML(d))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the cleaned, date-sorted table as CSV",
		Long: `Export the table after date normalization and missing-value imputation.

Example: findash export ledger.xlsx --out cleaned.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadPrepared(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return excel.WriteCSV(cmd.OutOrStdout(), p.Table)
			}
			if err := excel.WriteCSVFile(out, p.Table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", p.Table.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination CSV file (default: stdout)")
	return cmd
}

func newSampleCmd() *cobra.Command {
	cfg := testkit.DefaultLedgerConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic daily ledger CSV",
		Long: `Generate a deterministic synthetic ledger with date, region, revenue, expenses
and cash_balance columns.

Example: findash sample --days 120 --missing-rate 0.05 --out ledger.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Days < 1 {
				return fmt.Errorf("--days must be positive")
			}
			if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
				return fmt.Errorf("--missing-rate must be in [0, 1)")
			}
			t := testkit.NewLedgerGenerator(cfg).Generate()
			if out == "" || out == "-" {
				return excel.WriteCSV(cmd.OutOrStdout(), t)
			}
			return excel.WriteCSVFile(out, t)
		},
	}

	cmd.Flags().IntVar(&cfg.Days, "days", cfg.Days, "Number of days")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of numeric cells left empty")
	cmd.Flags().StringVar(&out, "out", "", "Destination CSV file (default: stdout)")
	return cmd
}
