package table

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	return MustNew(
		Column{Name: "date", Cells: []Cell{Text("2024-01-02"), Text("2024-01-01"), Missing()}},
		Column{Name: "amount", Cells: []Cell{Number(10), Missing(), Number(30)}},
	)
}

func TestCellConstructors(t *testing.T) {
	tests := []struct {
		name        string
		cell        Cell
		wantMissing bool
		wantString  string
	}{
		{"number", Number(1.5), false, "1.5"},
		{"nan", Number(math.NaN()), true, ""},
		{"inf", Number(math.Inf(1)), true, ""},
		{"text", Text("North"), false, "North"},
		{"empty text", Text(""), true, ""},
		{"date only", Time(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), false, "2024-03-01"},
		{"timestamp", Time(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)), false, "2024-03-01T09:30:00Z"},
		{"zero time", Time(time.Time{}), true, ""},
		{"zero value", Cell{}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMissing, tt.cell.IsMissing())
			assert.Equal(t, tt.wantString, tt.cell.String())
		})
	}
}

func TestCellJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{Number(2), Text("a"), Missing()})
	require.NoError(t, err)
	assert.JSONEq(t, `[2, "a", null]`, string(data))
}

func TestNew(t *testing.T) {
	t.Run("duplicate names", func(t *testing.T) {
		_, err := New([]Column{{Name: "a"}, {Name: "a"}})
		assert.Error(t, err)
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := New([]Column{
			{Name: "a", Cells: []Cell{Number(1)}},
			{Name: "b", Cells: []Cell{Number(1), Number(2)}},
		})
		assert.ErrorIs(t, err, ErrRaggedColumns)
	})

	t.Run("copies input cells", func(t *testing.T) {
		cells := []Cell{Number(1)}
		tbl := MustNew(Column{Name: "a", Cells: cells})
		cells[0] = Number(99)
		assert.True(t, tbl.Cell("a", 0).Equal(Number(1)))
	})
}

func TestTableAccessors(t *testing.T) {
	tbl := sample()

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 2, tbl.Width())
	assert.Equal(t, []string{"date", "amount"}, tbl.Names())
	assert.True(t, tbl.Has("amount"))
	assert.False(t, tbl.Has("missing"))
	assert.True(t, tbl.Cell("amount", 5).IsMissing())

	col, ok := tbl.Column("amount")
	require.True(t, ok)
	assert.True(t, col.IsNumeric())
	assert.Equal(t, 1, col.MissingCount())
	assert.Equal(t, []float64{10, 30}, col.Floats())

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.True(t, nilTable.IsEmpty())
	assert.Nil(t, nilTable.Clone())
}

func TestSelectRowsAndWithColumn(t *testing.T) {
	tbl := sample()

	picked := tbl.SelectRows([]int{2, 0})
	assert.Equal(t, 2, picked.Len())
	assert.True(t, picked.Cell("amount", 0).Equal(Number(30)))
	assert.True(t, picked.Cell("date", 1).Equal(Text("2024-01-02")))

	replaced, err := tbl.WithColumn(Column{Name: "amount", Cells: []Cell{Number(1), Number(2), Number(3)}})
	require.NoError(t, err)
	assert.True(t, replaced.Cell("amount", 1).Equal(Number(2)))
	assert.True(t, tbl.Cell("amount", 1).IsMissing(), "original is unchanged")

	_, err = tbl.WithColumn(Column{Name: "other", Cells: []Cell{Number(1), Number(2), Number(3)}})
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := sample()
	assert.Equal(t, a.Fingerprint(), sample().Fingerprint())
	assert.Len(t, a.Fingerprint().String(), 64)
	assert.Len(t, a.Fingerprint().Short(), 12)

	tests := []struct {
		name  string
		other *Table
	}{
		{"different value", MustNew(
			Column{Name: "date", Cells: []Cell{Text("2024-01-02"), Text("2024-01-01"), Missing()}},
			Column{Name: "amount", Cells: []Cell{Number(11), Missing(), Number(30)}},
		)},
		{"different order", sample().SelectRows([]int{1, 0, 2})},
		{"number versus text", MustNew(
			Column{Name: "date", Cells: []Cell{Text("2024-01-02"), Text("2024-01-01"), Missing()}},
			Column{Name: "amount", Cells: []Cell{Text("10"), Missing(), Number(30)}},
		)},
		{"renamed column", MustNew(
			Column{Name: "day", Cells: []Cell{Text("2024-01-02"), Text("2024-01-01"), Missing()}},
			Column{Name: "amount", Cells: []Cell{Number(10), Missing(), Number(30)}},
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, a.Fingerprint(), tt.other.Fingerprint())
		})
	}
}
