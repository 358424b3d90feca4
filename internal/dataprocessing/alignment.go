package dataprocessing

import (
	"fmt"

	apperrors "dendrocli/internal/errors"
	"dendrocli/pkg/contracts/domain"
)

// YearRange returns the earliest start year and the latest end year
// (start+len-1) over all records. A record without measurements still counts:
// its start year can open the range. When no record holds a measurement the
// range may be empty, with last == first-1. Only an empty dataset is an error.
func YearRange(ds domain.RawDataset) (first, last int, err error) {
	records := ds.Records()
	if len(records) == 0 {
		return 0, 0, apperrors.NewEmptyInputError("no series")
	}

	first, last = records[0].StartYear, records[0].EndYear()
	for _, rec := range records[1:] {
		first = min(first, rec.StartYear)
		last = max(last, rec.EndYear())
	}
	return first, last, nil
}

// PadSeries places rec on the first..last grid, filling absent years with Missing.
// A record without measurements becomes an all-missing column.
// A negative pad count means the range does not cover rec; that is a defect
// upstream and PadSeries panics with *errors.AlignmentInvariantError.
func PadSeries(rec domain.SeriesRecord, first, last int) []domain.Width {
	leading := rec.StartYear - first
	trailing := last - rec.EndYear()
	if leading < 0 || trailing < 0 {
		panic(&apperrors.AlignmentInvariantError{
			Series:    rec.ID,
			StartYear: rec.StartYear,
			Length:    rec.Len(),
			FirstYear: first,
			LastYear:  last,
			Leading:   leading,
			Trailing:  trailing,
		})
	}

	// the zero Width is Missing, so only the measured span needs writing
	column := make([]domain.Width, last-first+1)
	copy(column[leading:], rec.Widths)
	return column
}

// AssembleTable pads every record and combines them into an aligned table in
// first-appearance order.
func AssembleTable(ds domain.RawDataset, first, last int) *domain.AlignedTable {
	records := ds.Records()
	columns := make([]domain.Column, 0, len(records))
	for _, rec := range records {
		columns = append(columns, domain.Column{ID: rec.ID, Values: PadSeries(rec, first, last)})
	}

	table, err := domain.NewAlignedTable(first, last, columns)
	if err != nil {
		panic(fmt.Errorf("assemble aligned table: %w", err))
	}
	return table
}

// Align runs range calculation, padding and assembly over a finished dataset
func Align(ds domain.RawDataset) (*domain.AlignedTable, error) {
	first, last, err := YearRange(ds)
	if err != nil {
		return nil, err
	}
	return AssembleTable(ds, first, last), nil
}
