package dataprocessing

import (
	"slices"

	apperrors "dendrocli/internal/errors"
	"dendrocli/pkg/contracts/domain"
)

// LineResult reports what folding one line contributed
type LineResult struct {
	Measurements int  // widths appended, missing ones included
	Malformed    int  // tokens that did not parse and were stored as Missing
	StopMarker   bool // a trailing stop marker was dropped
}

// Accumulate folds one tokenized line into ds and returns the resulting dataset.
// ds is never modified. A new identifier starts a record at the line's start year;
// a known identifier must continue at the record's next year, otherwise a
// continuity error is returned.
func Accumulate(ds domain.RawDataset, line Line, opts Options) (domain.RawDataset, LineResult, error) {
	opts = opts.normalized()

	tokens := line.Tokens
	var res LineResult
	if opts.DropStopMarkers && len(tokens) > 0 && isStopMarker(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
		res.StopMarker = true
	}

	widths := make([]domain.Width, len(tokens))
	for i, tok := range tokens {
		w, ok := ParseMeasurement(tok, opts.Scale)
		if !ok {
			res.Malformed++
		}
		widths[i] = w
	}
	res.Measurements = len(widths)

	rec, exists := ds.Lookup(line.ID)
	if !exists {
		return ds.With(domain.SeriesRecord{
			ID:        line.ID,
			StartYear: line.StartYear,
			Widths:    widths,
		}), res, nil
	}

	if line.StartYear != rec.NextYear() {
		return ds, LineResult{}, apperrors.NewContinuityError(line.Number, line.ID, rec.NextYear(), line.StartYear)
	}

	rec.Widths = slices.Concat(rec.Widths, widths)
	return ds.With(rec), res, nil
}
