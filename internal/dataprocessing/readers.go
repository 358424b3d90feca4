package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "dendrocli/internal/errors"
	"dendrocli/pkg/contracts/domain"
)

// ReadFile loads any supported file with default options
func ReadFile(path string) (*domain.AlignedTable, error) {
	res, err := NewParser(DefaultOptions(), nil).ReadFile(path)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// ReadFile dispatches on the file extension: .csv and .xlsx are read as
// already-aligned tables, RWL-style extensions go through the series parser.
// Unknown extensions fail before the file is opened.
func (p *Parser) ReadFile(path string) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Reading series file",
		slog.String("path", path),
		slog.String("format", string(format)))

	switch format {
	case FormatCSV:
		return p.ReadCSVFile(path)
	case FormatXLSX:
		return p.ReadXLSXFile(path)
	default:
		return p.ParseFile(path)
	}
}

// ReadCSVFile reads a table written as CSV with a leading Year column
func (p *Parser) ReadCSVFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileReadError(path, err)
	}
	defer f.Close()

	res, err := p.ReadCSV(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return res, nil
}

// ReadCSV reads a Year-indexed CSV table from r. Values are taken as-is, not rescaled.
func (p *Parser) ReadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		if parseErr, ok := err.(*csv.ParseError); ok {
			return nil, apperrors.NewMalformedLineError(parseErr.Line, "invalid CSV", err)
		}
		return nil, apperrors.NewFileReadError("", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewEmptyInputError("CSV has no header")
	}

	return p.tableFromRows(records[0], records[1:], FormatCSV)
}

// ReadXLSXFile reads a table from the configured (or first) sheet of a workbook
func (p *Parser) ReadXLSXFile(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFileReadError(path, err)
	}
	defer f.Close()

	res, err := p.readWorkbook(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return res, nil
}

// ReadXLSX reads a workbook from r
func (p *Parser) ReadXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewFileReadError("", err)
	}
	defer f.Close()

	return p.readWorkbook(f)
}

func (p *Parser) readWorkbook(f *excelize.File) (*Result, error) {
	sheet := p.opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewEmptyInputError("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewFileReadError("", fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewEmptyInputError(fmt.Sprintf("sheet %q is empty", sheet))
	}

	p.logger.Debug("Found series sheet",
		slog.String("sheet_name", sheet),
		slog.Int("total_rows", len(rows)))

	return p.tableFromRows(rows[0], rows[1:], FormatXLSX)
}

// tableFromRows turns a header and data rows into an aligned table.
// Years must be strictly ascending; gaps between them become missing rows.
func (p *Parser) tableFromRows(header []string, rows [][]string, format Format) (*Result, error) {
	stats := ParseStats{
		Format:            format,
		MalformedBySeries: make(map[string]int),
	}

	if len(header) == 0 || !strings.EqualFold(cleanCell(header[0]), domain.YearLabel) {
		return nil, apperrors.NewMalformedLineError(1, fmt.Sprintf("first header cell must be %q", domain.YearLabel), nil)
	}

	ids := make([]string, 0, len(header)-1)
	seen := make(map[string]bool, len(header)-1)
	for _, cell := range header[1:] {
		id := cleanCell(cell)
		if id == "" {
			return nil, apperrors.NewMalformedLineError(1, "empty series identifier in header", nil)
		}
		if seen[id] {
			return nil, apperrors.NewMalformedLineError(1, fmt.Sprintf("duplicate series identifier %q", id), nil)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperrors.NewEmptyInputError("header names no series")
	}

	type yearRow struct {
		year  int
		cells []string
	}
	var data []yearRow
	for i, row := range rows {
		lineNo := i + 2
		if isBlankRow(row) {
			stats.BlankLines++
			continue
		}
		stats.Lines++

		year, err := strconv.Atoi(cleanCell(row[0]))
		if err != nil {
			return nil, apperrors.NewMalformedLineError(lineNo, "year is not an integer", err)
		}
		if err := checkYear(year); err != nil {
			return nil, apperrors.NewMalformedLineError(lineNo, "year out of range", err)
		}
		if len(data) > 0 && year <= data[len(data)-1].year {
			return nil, apperrors.NewMalformedLineError(lineNo,
				fmt.Sprintf("year %d does not follow %d", year, data[len(data)-1].year), nil)
		}
		data = append(data, yearRow{year: year, cells: row[1:]})
	}
	if len(data) == 0 {
		return nil, apperrors.NewEmptyInputError("no data rows")
	}

	first, last := data[0].year, data[len(data)-1].year
	columns := make([]domain.Column, len(ids))
	for c, id := range ids {
		columns[c] = domain.Column{ID: id, Values: make([]domain.Width, last-first+1)}
	}
	for _, r := range data {
		for c := range ids {
			if c >= len(r.cells) {
				break
			}
			w, ok := parseCell(r.cells[c])
			if !ok {
				stats.MalformedTokens++
				stats.MalformedBySeries[ids[c]]++
			}
			if w.Valid {
				stats.Measurements++
			}
			columns[c].Values[r.year-first] = w
		}
	}
	stats.Series = len(ids)

	table, err := domain.NewAlignedTable(first, last, columns)
	if err != nil {
		return nil, apperrors.NewMalformedLineError(0, "inconsistent table", err)
	}

	p.logger.Info("Read tabular input",
		slog.String("format", string(format)),
		slog.Int("rows", stats.Lines),
		slog.Int("series", stats.Series),
		slog.Int("first_year", first),
		slog.Int("last_year", last),
		slog.Int("malformed_cells", stats.MalformedTokens))

	return &Result{Table: table, Stats: stats}, nil
}

// parseCell reads one table cell. Empty and NA-style cells are missing but not malformed.
func parseCell(s string) (domain.Width, bool) {
	s = cleanCell(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return domain.Missing, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return domain.Missing, false
	}
	return domain.Measured(v), true
}

// cleanCell trims whitespace, surrounding quotes and a UTF-8 byte order mark
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\""))
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
