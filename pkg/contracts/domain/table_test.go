package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlignedTable(t *testing.T) {
	tests := []struct {
		name        string
		first, last int
		columns     []Column
		wantErr     bool
		errContains string
	}{
		{
			name:  "valid two columns",
			first: 1900,
			last:  1901,
			columns: []Column{
				{ID: "A", Values: []Width{Measured(1), Missing}},
				{ID: "B", Values: []Width{Missing, Measured(2)}},
			},
		},
		{
			name:        "inverted range",
			first:       1902,
			last:        1900,
			wantErr:     true,
			errContains: "invalid year range",
		},
		{
			name:    "empty range",
			first:   1900,
			last:    1899,
			columns: []Column{{ID: "A", Values: []Width{}}},
		},
		{
			name:        "short column",
			first:       1900,
			last:        1902,
			columns:     []Column{{ID: "A", Values: []Width{Measured(1)}}},
			wantErr:     true,
			errContains: "has 1 values, want 3",
		},
		{
			name:  "duplicate identifier",
			first: 1900,
			last:  1900,
			columns: []Column{
				{ID: "A", Values: []Width{Measured(1)}},
				{ID: "A", Values: []Width{Measured(2)}},
			},
			wantErr:     true,
			errContains: "duplicate column",
		},
		{
			name:        "empty identifier",
			first:       1900,
			last:        1900,
			columns:     []Column{{ID: "", Values: []Width{Measured(1)}}},
			wantErr:     true,
			errContains: "empty identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewAlignedTable(tt.first, tt.last, tt.columns)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.last-tt.first+1, table.Rows())
			assert.Equal(t, len(tt.columns), table.Len())
		})
	}
}

func TestAlignedTable_Accessors(t *testing.T) {
	table, err := NewAlignedTable(1900, 1903, []Column{
		{ID: "A", Values: []Width{Measured(1.00), Measured(1.05), Measured(1.10), Missing}},
		{ID: "B", Values: []Width{Missing, Missing, Measured(0.95), Measured(0.98)}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1900, 1901, 1902, 1903}, table.Years())
	assert.Equal(t, []string{"A", "B"}, table.IDs())
	assert.Equal(t, 1900, table.FirstYear())
	assert.Equal(t, 1903, table.LastYear())

	v, ok := table.At("B", 1902)
	require.True(t, ok)
	assert.Equal(t, Measured(0.95), v)

	_, ok = table.At("B", 1899)
	assert.False(t, ok)
	_, ok = table.At("C", 1900)
	assert.False(t, ok)

	row, ok := table.Row(1903)
	require.True(t, ok)
	assert.Equal(t, []Width{Missing, Measured(0.98)}, row)
}

func TestAlignedTable_Immutable(t *testing.T) {
	values := []Width{Measured(1), Measured(2)}
	table, err := NewAlignedTable(2000, 2001, []Column{{ID: "A", Values: values}})
	require.NoError(t, err)

	values[0] = Missing
	col, ok := table.Column("A")
	require.True(t, ok)
	assert.Equal(t, Measured(1), col[0], "constructor input must be copied")

	col[1] = Missing
	again, _ := table.Column("A")
	assert.Equal(t, Measured(2), again[1], "accessor output must be a copy")

	cols := table.Columns()
	cols[0].Values[0] = Missing
	v, _ := table.At("A", 2000)
	assert.Equal(t, Measured(1), v)
}

func TestAlignedTable_Equal(t *testing.T) {
	build := func(v Width) *AlignedTable {
		table, err := NewAlignedTable(1990, 1990, []Column{{ID: "X", Values: []Width{v}}})
		require.NoError(t, err)
		return table
	}

	assert.True(t, build(Measured(1)).Equal(build(Measured(1))))
	assert.False(t, build(Measured(1)).Equal(build(Missing)))
	assert.False(t, build(Measured(0)).Equal(build(Missing)), "zero is not missing")

	var nilTable *AlignedTable
	assert.True(t, nilTable.Equal(nil))
	assert.False(t, build(Missing).Equal(nil))
}

func TestWidth(t *testing.T) {
	assert.True(t, Missing.IsMissing())
	assert.False(t, Measured(0).IsMissing())
	assert.Equal(t, "NA", Missing.String())
	assert.Equal(t, "1.05", Measured(1.05).String())

	v, ok := Measured(2.5).Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestWidth_JSON(t *testing.T) {
	data, err := json.Marshal([]Width{Measured(1.5), Missing})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null]`, string(data))

	var decoded []Width
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Width{Measured(1.5), Missing}, decoded)
}

func TestRawDataset_With(t *testing.T) {
	var empty RawDataset
	one := empty.With(SeriesRecord{ID: "A", StartYear: 1900, Widths: []Width{Measured(1)}})
	two := one.With(SeriesRecord{ID: "B", StartYear: 1950})
	replaced := two.With(SeriesRecord{ID: "A", StartYear: 1900, Widths: []Width{Measured(1), Measured(2)}})

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []string{"A"}, one.IDs())
	assert.Equal(t, []string{"A", "B"}, two.IDs())
	assert.Equal(t, []string{"A", "B"}, replaced.IDs())

	a, ok := two.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 1, a.Len(), "earlier datasets are not affected by later folds")

	a, _ = replaced.Lookup("A")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1901, a.EndYear())
	assert.Equal(t, 1902, a.NextYear())

	// Two branches off the same parent must not share order storage.
	left := one.With(SeriesRecord{ID: "L", StartYear: 1})
	right := one.With(SeriesRecord{ID: "R", StartYear: 1})
	assert.Equal(t, []string{"A", "L"}, left.IDs())
	assert.Equal(t, []string{"A", "R"}, right.IDs())
}

func TestSeriesSummary_Span(t *testing.T) {
	assert.Equal(t, 0, SeriesSummary{}.Span())
	assert.Equal(t, 4, SeriesSummary{FirstYear: 1900, LastYear: 1903, Count: 3}.Span())
}
