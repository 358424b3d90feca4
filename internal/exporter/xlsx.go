package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dendrocli/pkg/contracts"
	"dendrocli/pkg/contracts/domain"
)

// Sheet names used in exported workbooks
const (
	DefaultSeriesSheet = "Series"
	SummarySheet       = "Summary"
)

// XLSXWriter writes aligned tables as Excel workbooks
type XLSXWriter struct {
	opts   TableOptions
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(opts TableOptions, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSeriesSheet
	}
	return &XLSXWriter{opts: opts, logger: logger}
}

// Export writes table to the series sheet and, when summaries is non-empty,
// a Summary sheet. Missing years are left as empty cells.
func (x *XLSXWriter) Export(table *domain.AlignedTable, summaries []domain.SeriesSummary, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", x.opts.SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: contracts.VersionString(),
		Title:   "Aligned tree-ring series",
		Version: contracts.TableFormatVersion,
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := x.writeSeriesSheet(f, table, headerStyle); err != nil {
		return err
	}
	if len(summaries) > 0 {
		if err := x.writeSummarySheet(f, summaries, headerStyle); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	x.logger.Info("Exported workbook",
		slog.String("file", filePath),
		slog.String("sheet_name", x.opts.SheetName),
		slog.Int("series", table.Len()),
		slog.Int("years", table.Rows()))
	return nil
}

func (x *XLSXWriter) writeSeriesSheet(f *excelize.File, table *domain.AlignedTable, headerStyle int) error {
	sheet := x.opts.SheetName

	headers := TableHeaders(table)
	if err := setRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}
	if err := styleHeader(f, sheet, len(headers), headerStyle); err != nil {
		return err
	}

	for i, year := range table.Years() {
		row, _ := table.Row(year)
		cells := make([]any, 0, len(row)+1)
		cells = append(cells, year)
		for _, w := range row {
			if w.IsMissing() {
				cells = append(cells, nil)
				continue
			}
			cells = append(cells, w.Value)
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	// freeze the header row
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (x *XLSXWriter) writeSummarySheet(f *excelize.File, summaries []domain.SeriesSummary, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := setRow(f, SummarySheet, 1, toCells(summaryHeaders)); err != nil {
		return err
	}
	if err := styleHeader(f, SummarySheet, len(summaryHeaders), headerStyle); err != nil {
		return err
	}

	for i, s := range summaries {
		cells := []any{s.ID, nil, nil, s.Count, s.Missing, nil, nil, nil, nil}
		if s.Count > 0 {
			cells = []any{s.ID, s.FirstYear, s.LastYear, s.Count, s.Missing, s.Sum, s.Mean, s.Min, s.Max}
		}
		if err := setRow(f, SummarySheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
