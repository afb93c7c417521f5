package ports

import (
	"context"
	"io"

	"findash/domain/table"
)

// TableReader delivers a raw table from an external source (file, upload, request body).
// Cells are typed per column but dates are not yet recognised; that is the classifier's job.
type TableReader interface {
	ReadTable(ctx context.Context) (*table.Table, error)
}

// TableWriter exports a table, e.g. as CSV for the "Export Data" action
type TableWriter interface {
	WriteTable(w io.Writer, t *table.Table) error
}

// TableReaderFunc adapts a function to TableReader
type TableReaderFunc func(ctx context.Context) (*table.Table, error)

// ReadTable calls f
func (f TableReaderFunc) ReadTable(ctx context.Context) (*table.Table, error) {
	return f(ctx)
}
