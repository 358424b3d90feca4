package domain

// SeriesSummary holds descriptive statistics for one series of an aligned table.
// FirstYear and LastYear bound the measured span; Missing counts gaps inside it.
type SeriesSummary struct {
	ID        string  `json:"id" validate:"required"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	Count     int     `json:"count" validate:"min=0"`
	Missing   int     `json:"missing" validate:"min=0"`
	Sum       float64 `json:"sum"`
	Mean      float64 `json:"mean"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Span returns the number of years between the first and last measurement, inclusive
func (s SeriesSummary) Span() int {
	if s.Count == 0 {
		return 0
	}
	return s.LastYear - s.FirstYear + 1
}
