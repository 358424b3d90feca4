package domain

import (
	"fmt"
	"slices"
)

// YearLabel is the name of the row key column in every tabular rendering
const YearLabel = "Year"

// Column is one series of an aligned table
type Column struct {
	ID     string  `json:"id"`
	Values []Width `json:"values"`
}

// AlignedTable is a rectangular, year-indexed view over a set of series.
// Years are contiguous and ascending; every column has one value per year.
// The table is immutable: accessors hand out copies.
type AlignedTable struct {
	firstYear int
	lastYear  int
	columns   []Column
	index     map[string]int
}

// NewAlignedTable builds a table spanning firstYear..lastYear inclusive.
// lastYear == firstYear-1 gives a table with columns but no rows.
// Column order is preserved, identifiers must be unique and non-empty, and
// every column must hold exactly lastYear-firstYear+1 values. Inputs are copied.
func NewAlignedTable(firstYear, lastYear int, columns []Column) (*AlignedTable, error) {
	if lastYear < firstYear-1 {
		return nil, fmt.Errorf("invalid year range %d..%d", firstYear, lastYear)
	}
	rows := lastYear - firstYear + 1

	t := &AlignedTable{
		firstYear: firstYear,
		lastYear:  lastYear,
		columns:   make([]Column, 0, len(columns)),
		index:     make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if col.ID == "" {
			return nil, fmt.Errorf("column %d has an empty identifier", len(t.columns))
		}
		if _, dup := t.index[col.ID]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.ID)
		}
		if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d values, want %d", col.ID, len(col.Values), rows)
		}
		t.index[col.ID] = len(t.columns)
		t.columns = append(t.columns, Column{ID: col.ID, Values: slices.Clone(col.Values)})
	}
	return t, nil
}

// FirstYear returns the first row key
func (t *AlignedTable) FirstYear() int { return t.firstYear }

// LastYear returns the last row key
func (t *AlignedTable) LastYear() int { return t.lastYear }

// Rows returns the number of years
func (t *AlignedTable) Rows() int {
	return t.lastYear - t.firstYear + 1
}

// Len returns the number of series columns
func (t *AlignedTable) Len() int {
	return len(t.columns)
}

// Years returns the row keys
func (t *AlignedTable) Years() []int {
	years := make([]int, t.Rows())
	for i := range years {
		years[i] = t.firstYear + i
	}
	return years
}

// IDs returns column identifiers in table order
func (t *AlignedTable) IDs() []string {
	ids := make([]string, len(t.columns))
	for i, col := range t.columns {
		ids[i] = col.ID
	}
	return ids
}

// Column returns a copy of the values for id
func (t *AlignedTable) Column(id string) ([]Width, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.columns[i].Values), true
}

// Columns returns copies of all columns in table order
func (t *AlignedTable) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i, col := range t.columns {
		out[i] = Column{ID: col.ID, Values: slices.Clone(col.Values)}
	}
	return out
}

// At returns the value of series id in year. Years outside the table and
// unknown identifiers report ok=false.
func (t *AlignedTable) At(id string, year int) (Width, bool) {
	i, ok := t.index[id]
	if !ok || year < t.firstYear || year > t.lastYear {
		return Missing, false
	}
	return t.columns[i].Values[year-t.firstYear], true
}

// Row returns the values of every series for year, in column order
func (t *AlignedTable) Row(year int) ([]Width, bool) {
	if year < t.firstYear || year > t.lastYear {
		return nil, false
	}
	row := make([]Width, len(t.columns))
	for i, col := range t.columns {
		row[i] = col.Values[year-t.firstYear]
	}
	return row, true
}

// Equal reports whether two tables have the same range, column order and values
func (t *AlignedTable) Equal(other *AlignedTable) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.firstYear != other.firstYear || t.lastYear != other.lastYear || len(t.columns) != len(other.columns) {
		return false
	}
	for i, col := range t.columns {
		if col.ID != other.columns[i].ID || !slices.Equal(col.Values, other.columns[i].Values) {
			return false
		}
	}
	return true
}
