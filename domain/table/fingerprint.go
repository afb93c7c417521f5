package table

import "findash/domain/core"

// Fingerprint hashes column names, cell types and values in order. Two tables with the
// same content share a fingerprint regardless of how they were read.
func (t *Table) Fingerprint() core.Hash {
	w := core.NewHashWriter()
	for _, col := range t.Columns() {
		w.WriteField(col.Name)
	}
	w.EndRecord()
	for i := 0; i < t.Len(); i++ {
		for _, cell := range t.Row(i) {
			if cell.IsMissing() {
				w.WriteField("")
				continue
			}
			w.WriteField(string(cell.Type) + ":" + cell.String())
		}
		w.EndRecord()
	}
	return w.Sum()
}
