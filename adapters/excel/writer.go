package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"findash/domain/table"
	"findash/internal/errors"
	"findash/ports"
)

var _ ports.TableWriter = CSVWriter{}

// CSVWriter exports tables as CSV with a header row. Missing cells are written empty,
// dates without a time of day as YYYY-MM-DD.
type CSVWriter struct{}

// WriteTable writes t to w
func (CSVWriter) WriteTable(w io.Writer, t *table.Table) error {
	return WriteCSV(w, t)
}

// WriteCSV writes t to w
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		cells := t.Row(i)
		record := make([]string, len(cells))
		for j, cell := range cells {
			record[j] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes t to path, replacing any existing file
func WriteCSVFile(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOFailure(path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return errors.IOFailure(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.IOFailure(path, err)
	}
	return nil
}
