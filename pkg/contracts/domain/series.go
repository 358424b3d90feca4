package domain

import (
	"maps"
	"slices"
)

// SeriesRecord is one specimen's measurements as read from a file.
// Widths[i] belongs to calendar year StartYear+i; there are no gaps inside a record.
type SeriesRecord struct {
	ID        string  `json:"id" validate:"required"`
	StartYear int     `json:"start_year"`
	Widths    []Width `json:"widths"`
}

// Len returns the number of measured years, missing tokens included
func (r SeriesRecord) Len() int {
	return len(r.Widths)
}

// EndYear returns the calendar year of the last measurement.
// For an empty record this is StartYear-1.
func (r SeriesRecord) EndYear() int {
	return r.StartYear + len(r.Widths) - 1
}

// NextYear returns the year the next continuation line must start at
func (r SeriesRecord) NextYear() int {
	return r.StartYear + len(r.Widths)
}

// RawDataset maps identifiers to records and remembers first-appearance order.
// It is a persistent value: With returns a new dataset and leaves the receiver,
// and every slice reachable from it, untouched.
type RawDataset struct {
	order   []string
	records map[string]SeriesRecord
}

// Len returns the number of series
func (d RawDataset) Len() int {
	return len(d.order)
}

// IDs returns identifiers in first-appearance order
func (d RawDataset) IDs() []string {
	return slices.Clone(d.order)
}

// Lookup returns the record for id
func (d RawDataset) Lookup(id string) (SeriesRecord, bool) {
	rec, ok := d.records[id]
	return rec, ok
}

// Records returns all records in first-appearance order
func (d RawDataset) Records() []SeriesRecord {
	out := make([]SeriesRecord, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.records[id])
	}
	return out
}

// With returns a dataset in which rec replaces (or is appended as) the record for rec.ID.
// The caller must not retain rec.Widths for further mutation.
func (d RawDataset) With(rec SeriesRecord) RawDataset {
	next := RawDataset{
		order:   d.order,
		records: maps.Clone(d.records),
	}
	if next.records == nil {
		next.records = make(map[string]SeriesRecord)
	}
	if _, exists := d.records[rec.ID]; !exists {
		// full slice expression forces a copy on append so d.order is never shared-written
		next.order = append(d.order[:len(d.order):len(d.order)], rec.ID)
	}
	next.records[rec.ID] = rec
	return next
}
