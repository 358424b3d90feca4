package dataprocessing

import (
	"dendrocli/pkg/contracts/domain"
)

// Summarize computes per-series statistics for every column of table, in column order
func Summarize(table *domain.AlignedTable) []domain.SeriesSummary {
	if table == nil {
		return nil
	}
	summaries := make([]domain.SeriesSummary, 0, table.Len())
	for _, col := range table.Columns() {
		summaries = append(summaries, SummarizeSeries(col.ID, table.FirstYear(), col.Values))
	}
	return summaries
}

// SummarizeSeries computes statistics for one column whose first value belongs to firstYear.
// Missing counts absent years between the first and last measured year only;
// alignment padding outside that span is not counted.
func SummarizeSeries(id string, firstYear int, values []domain.Width) domain.SeriesSummary {
	s := domain.SeriesSummary{ID: id}

	firstIdx, lastIdx := -1, -1
	for i, w := range values {
		if !w.Valid {
			continue
		}
		if firstIdx == -1 {
			firstIdx = i
			s.Min, s.Max = w.Value, w.Value
		}
		lastIdx = i
		s.Count++
		s.Sum += w.Value
		s.Min = min(s.Min, w.Value)
		s.Max = max(s.Max, w.Value)
	}
	if s.Count == 0 {
		return s
	}

	s.FirstYear = firstYear + firstIdx
	s.LastYear = firstYear + lastIdx
	s.Missing = (lastIdx - firstIdx + 1) - s.Count
	s.Mean = s.Sum / float64(s.Count)
	return s
}
