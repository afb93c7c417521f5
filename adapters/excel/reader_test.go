package excel

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"findash/internal"
	"findash/internal/classifier"
	"findash/internal/errors"
	"findash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTableCSV(t *testing.T) {
	path := writeFile(t, "ledger.csv", "\ufeffdate,region,revenue\n2024-01-01,N,\"$1,200.50\"\n2024-01-02,S\n2024-01-03,,(300)\n")

	tbl, err := NewDataReader(path, DefaultReaderConfig()).ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "region", "revenue"}, tbl.Names())
	assert.Equal(t, 3, tbl.Len())

	revenue, _ := tbl.Column("revenue")
	assert.True(t, revenue.IsNumeric())
	assert.Equal(t, []float64{1200.5, -300}, revenue.Floats())
	assert.True(t, revenue.Cells[1].IsMissing(), "short row is padded")

	region, _ := tbl.Column("region")
	assert.True(t, region.Cells[2].IsMissing())

	date, _ := tbl.Column("date")
	assert.True(t, date.Cells[0].IsText(), "dates stay text until classification")
}

func TestReadTableXLSX(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"date", "revenue", "region"},
		{"2024-01-01", 100.5, "N"},
		{"2024-01-02", 110, "S"},
	})

	tbl, err := NewDataReader(path, DefaultReaderConfig()).ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "revenue", "region"}, tbl.Names())
	revenue, _ := tbl.Column("revenue")
	assert.Equal(t, []float64{100.5, 110}, revenue.Floats())
}

func TestReadTableXLSXDateCells(t *testing.T) {
	customDate := "dd/mm/yyyy"
	tests := []struct {
		name  string
		style *excelize.Style
	}{
		{"short date", &excelize.Style{NumFmt: 14}},
		{"month year", &excelize.Style{NumFmt: 17}},
		{"date time", &excelize.Style{NumFmt: 22}},
		{"custom format", &excelize.Style{CustomNumFmt: &customDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			defer f.Close()
			dateStyle, err := f.NewStyle(tt.style)
			require.NoError(t, err)
			moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
			require.NoError(t, err)

			require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"date", "revenue"}))
			for i := 0; i < 12; i++ {
				row := i + 2
				require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("A%d", row), testkit.Day0.AddDate(0, 0, i)))
				require.NoError(t, f.SetCellStyle("Sheet1", fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), dateStyle))
				require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("B%d", row), 1000.5+float64(i)))
				require.NoError(t, f.SetCellStyle("Sheet1", fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), moneyStyle))
			}
			path := filepath.Join(t.TempDir(), "dates.xlsx")
			require.NoError(t, f.SaveAs(path))

			tbl, err := NewDataReader(path, DefaultReaderConfig()).ReadTable(context.Background())
			require.NoError(t, err)

			date, _ := tbl.Column("date")
			assert.Equal(t, "2024-01-01", date.Cells[0].String())
			assert.Equal(t, "2024-01-12", date.Cells[11].String())
			revenue, _ := tbl.Column("revenue")
			assert.True(t, revenue.IsNumeric(), "money-styled numbers stay numbers")
			assert.Equal(t, 1000.5, revenue.Floats()[0])

			report, err := classifier.New(nil).Validate(tbl)
			require.NoError(t, err)
			assert.Equal(t, "date", report.DateColumn)
		})
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"d-mmm", true},
		{"[$-409]mmmm d, yyyy", true},
		{"#,##0.00", false},
		{`0.00" days"`, false},
		{"[Red]0.00", false},
		{"mm:ss", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
}

func TestReaderLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	path := writeFile(t, "ledger.csv", "date,revenue\n2024-01-01,10\n")

	_, err := NewDataReader(path, DefaultReaderConfig()).
		WithLogger(internal.NewLogger(internal.LogLevelError).With("DataReader")).
		ReadTable(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "info lines are dropped at ERROR level")

	_, err = NewDataReader(path, DefaultReaderConfig()).
		WithLogger(internal.NewLogger(internal.LogLevelInfo).With("DataReader")).
		ReadTable(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[INFO] [DataReader] Reading csv file: "+path)
}

func TestReadTableXLSXNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Ledger", [][]interface{}{
		{"period", "cash"},
		{"2024-01", 5},
	})

	cfg := DefaultReaderConfig()
	cfg.SheetName = "Ledger"
	tbl, err := NewDataReader(path, cfg).ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	cfg.SheetName = "Missing"
	_, err = NewDataReader(path, cfg).ReadTable(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOFailure, errors.GetCode(err))
}

func TestReadTableHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "date,revenue\n")

	tbl, err := NewDataReader(path, DefaultReaderConfig()).ReadTable(context.Background())
	require.NoError(t, err)
	assert.True(t, tbl.IsEmpty())
	assert.Equal(t, 2, tbl.Width())
}

func TestReadTableErrors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), DefaultReaderConfig()).ReadTable(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOFailure, errors.GetCode(err))

	path := writeFile(t, "ok.csv", "a,b\n1,2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDataReader(path, DefaultReaderConfig()).ReadTable(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromRecords(t *testing.T) {
	tbl, err := FromRecords(
		[]string{"date", "amount", "amount", ""},
		[][]interface{}{
			{"2024-01-01", 10.0, "n/a", "x"},
			{"2024-01-02", "12", nil},
		},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "amount", "amount.1", "Unnamed: 3"}, tbl.Names())
	amount, _ := tbl.Column("amount")
	assert.Equal(t, []float64{10, 12}, amount.Floats())
	dup, _ := tbl.Column("amount.1")
	assert.Equal(t, 2, dup.MissingCount())

	_, err = FromRecords([]string{"a"}, [][]interface{}{{1.0, 2.0}}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestUniqueHeaders(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "a.2", "b"}, uniqueHeaders([]string{"a", " a ", "a", "b"}))
}

func TestWriteCSV(t *testing.T) {
	tbl := testkit.Table(
		testkit.Dates("date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2),
		testkit.WithMissing(testkit.Numbers("revenue", 1.5, 2), 1),
		testkit.Texts("region", "N", "S"),
	)

	var buf bytes.Buffer
	require.NoError(t, CSVWriter{}.WriteTable(&buf, tbl))

	assert.Equal(t, "date,revenue,region\n2024-03-01,1.5,N\n2024-03-02,,S\n", buf.String())
}

func TestWriteCSVFileRoundTrip(t *testing.T) {
	src := testkit.NewLedgerGenerator(testkit.DefaultLedgerConfig()).Generate()
	path := filepath.Join(t.TempDir(), "export.csv")

	require.NoError(t, WriteCSVFile(path, src))
	back, err := NewDataReader(path, DefaultReaderConfig()).ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, src.Names(), back.Names())
	assert.Equal(t, src.Len(), back.Len())
	want, _ := src.Column("revenue")
	got, _ := back.Column("revenue")
	assert.Equal(t, want.Floats(), got.Floats())
}
