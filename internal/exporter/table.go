package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"dendrocli/pkg/contracts/domain"
)

// DefaultMissingText is written for years without a measurement
const DefaultMissingText = "NA"

// TableOptions controls how aligned tables are rendered
type TableOptions struct {
	MissingText string
	Precision   int // decimals; negative for the shortest round-trip form
	BOMPrefix   bool
	SheetName   string // xlsx only
}

// DefaultTableOptions returns the rendering used when nothing is configured
func DefaultTableOptions() TableOptions {
	return TableOptions{
		MissingText: DefaultMissingText,
		Precision:   -1,
		SheetName:   DefaultSeriesSheet,
	}
}

var summaryHeaders = []string{"ID", "FirstYear", "LastYear", "Count", "Missing", "Sum", "Mean", "Min", "Max"}

// TableExporter writes aligned tables and their summaries as CSV
type TableExporter struct {
	csvWriter *CSVWriter
	opts      TableOptions
	logger    *slog.Logger
}

// NewTableExporter creates a table exporter on top of a CSV writer
func NewTableExporter(csvWriter *CSVWriter, opts TableOptions, logger *slog.Logger) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if csvWriter == nil {
		csvWriter = NewCSVWriter("", logger)
	}
	return &TableExporter{
		csvWriter: csvWriter,
		opts:      opts,
		logger:    logger,
	}
}

// TableHeaders returns "Year" followed by the series identifiers
func TableHeaders(table *domain.AlignedTable) []string {
	return append([]string{domain.YearLabel}, table.IDs()...)
}

// TableRecords renders one record per year, in ascending order
func (e *TableExporter) TableRecords(table *domain.AlignedTable) [][]string {
	records := make([][]string, 0, table.Rows())
	for _, year := range table.Years() {
		records = append(records, e.yearRecord(table, year))
	}
	return records
}

func (e *TableExporter) yearRecord(table *domain.AlignedTable, year int) []string {
	row, _ := table.Row(year)
	record := make([]string, 0, len(row)+1)
	record = append(record, formatInt(year))
	for _, w := range row {
		record = append(record, formatWidth(w, e.opts.MissingText, e.opts.Precision))
	}
	return record
}

// ExportCSV streams table to filePath, one row per year
func (e *TableExporter) ExportCSV(table *domain.AlignedTable, filePath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(filePath, TableHeaders(table), e.opts.BOMPrefix)
	if err != nil {
		return fmt.Errorf("failed to create table CSV: %w", err)
	}

	for _, year := range table.Years() {
		if err := stream.WriteRecord(e.yearRecord(table, year)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write year %d: %w", year, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finish table CSV: %w", err)
	}

	e.logger.Info("Exported aligned table",
		slog.String("file", stream.Path()),
		slog.Int("series", table.Len()),
		slog.Int("years", table.Rows()))
	return nil
}

// WriteTable renders table to w using the given delimiter
func (e *TableExporter) WriteTable(w io.Writer, table *domain.AlignedTable, comma rune) error {
	return e.write(w, TableHeaders(table), e.TableRecords(table), comma)
}

// SummaryRecords renders one record per series
func (e *TableExporter) SummaryRecords(summaries []domain.SeriesSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		if s.Count == 0 {
			records = append(records, []string{
				s.ID, e.opts.MissingText, e.opts.MissingText, "0", "0",
				e.opts.MissingText, e.opts.MissingText, e.opts.MissingText, e.opts.MissingText,
			})
			continue
		}
		records = append(records, []string{
			s.ID,
			formatInt(s.FirstYear),
			formatInt(s.LastYear),
			formatInt(s.Count),
			formatInt(s.Missing),
			formatFloat(s.Sum, e.opts.Precision),
			formatFloat(s.Mean, e.opts.Precision),
			formatFloat(s.Min, e.opts.Precision),
			formatFloat(s.Max, e.opts.Precision),
		})
	}
	return records
}

// ExportSummaryCSV writes per-series statistics to filePath
func (e *TableExporter) ExportSummaryCSV(summaries []domain.SeriesSummary, filePath string) error {
	err := e.csvWriter.WriteCSV(filePath, WriteOptions{
		Headers:   summaryHeaders,
		Records:   e.SummaryRecords(summaries),
		BOMPrefix: e.opts.BOMPrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	return nil
}

// WriteSummary renders summaries to w using the given delimiter
func (e *TableExporter) WriteSummary(w io.Writer, summaries []domain.SeriesSummary, comma rune) error {
	return e.write(w, summaryHeaders, e.SummaryRecords(summaries), comma)
}

func (e *TableExporter) write(w io.Writer, headers []string, records [][]string, comma rune) error {
	writer := csv.NewWriter(w)
	if comma != 0 {
		writer.Comma = comma
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}
