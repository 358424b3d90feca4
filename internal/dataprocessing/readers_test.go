package dataprocessing

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "dendrocli/internal/errors"
	"dendrocli/pkg/contracts/domain"
)

func TestReadCSV(t *testing.T) {
	parser := NewParser(DefaultOptions(), testLogger())

	t.Run("aligned table", func(t *testing.T) {
		input := "Year,A,B\n1900,1,NA\n1901,1.05,\n1902,1.1,0.95\n1903,NA,0.98\n"
		res, err := parser.ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, FormatCSV, res.Stats.Format)
		assert.Equal(t, []string{"A", "B"}, res.Table.IDs())
		assert.Equal(t, 1900, res.Table.FirstYear())
		assert.Equal(t, 1903, res.Table.LastYear())
		assertColumn(t, res.Table, "A", []domain.Width{m(1), m(1.05), m(1.1), na})
		assertColumn(t, res.Table, "B", []domain.Width{na, na, m(0.95), m(0.98)})
		assert.Equal(t, 5, res.Stats.Measurements)
		assert.Zero(t, res.Stats.MalformedTokens)
	})

	t.Run("byte order mark and quotes", func(t *testing.T) {
		input := "\ufeffYear,\"A\"\n1900,2\n"
		res, err := parser.ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, res.Table.IDs())
	})

	t.Run("year gaps become missing rows", func(t *testing.T) {
		res, err := parser.ReadCSV(strings.NewReader("Year,A\n1900,1\n1903,4\n"))
		require.NoError(t, err)
		assertColumn(t, res.Table, "A", []domain.Width{m(1), na, na, m(4)})
	})

	t.Run("short rows and blank rows", func(t *testing.T) {
		res, err := parser.ReadCSV(strings.NewReader("Year,A,B\n1900,1\n\n1901,2,3\n"))
		require.NoError(t, err)
		assertColumn(t, res.Table, "B", []domain.Width{na, m(3)})
	})

	t.Run("malformed cell counted", func(t *testing.T) {
		res, err := parser.ReadCSV(strings.NewReader("Year,A\n1900,abc\n1901,2\n"))
		require.NoError(t, err)
		assertColumn(t, res.Table, "A", []domain.Width{na, m(2)})
		assert.Equal(t, 1, res.Stats.MalformedTokens)
		assert.Equal(t, 1, res.Stats.MalformedBySeries["A"])
	})
}

func TestReadCSVErrors(t *testing.T) {
	parser := NewParser(DefaultOptions(), testLogger())

	tests := []struct {
		name     string
		input    string
		wantKind error
		wantLine int
	}{
		{name: "empty", input: "", wantKind: apperrors.ErrEmptyInput},
		{name: "header only", input: "Year,A\n", wantKind: apperrors.ErrEmptyInput},
		{name: "no series", input: "Year\n1900\n", wantKind: apperrors.ErrEmptyInput},
		{name: "bad header", input: "Date,A\n1900,1\n", wantKind: apperrors.ErrMalformedLine, wantLine: 1},
		{name: "duplicate id", input: "Year,A,A\n1900,1,2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 1},
		{name: "empty id", input: "Year,,B\n1900,1,2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 1},
		{name: "bad year", input: "Year,A\n1900,1\nx,2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 3},
		{name: "year out of range", input: "Year,A\n1900,1\n19000000000,2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 3},
		{name: "descending years", input: "Year,A\n1901,1\n1900,2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 3},
		{name: "bare quote", input: "Year,A\n1900,1\"2\n", wantKind: apperrors.ErrMalformedLine, wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var readErr *apperrors.ReadError
			require.ErrorAs(t, err, &readErr)
			assert.Equal(t, tt.wantLine, readErr.Line)
		})
	}
}

func writeWorkbook(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadXLSXFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]any{
		{"Year", "A", "B"},
		{1900, 1.0, "NA"},
		{1901, 1.05, 0.95},
	})

	parser := NewParser(DefaultOptions(), testLogger())
	res, err := parser.ReadXLSXFile(path)
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, res.Stats.Format)
	assert.Equal(t, []string{"A", "B"}, res.Table.IDs())
	assertColumn(t, res.Table, "A", []domain.Width{m(1), m(1.05)})
	assertColumn(t, res.Table, "B", []domain.Width{na, m(0.95)})
}

func TestReadXLSXSheetSelection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Series")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Year", "FIRST"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{2000, 1}))
	require.NoError(t, f.SetSheetRow("Series", "A1", &[]any{"Year", "SECOND"}))
	require.NoError(t, f.SetSheetRow("Series", "A2", &[]any{2000, 2}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := NewParser(DefaultOptions(), testLogger()).ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"FIRST"}, res.Table.IDs())

	opts := DefaultOptions()
	opts.SheetName = "Series"
	res, err = NewParser(opts, testLogger()).ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SECOND"}, res.Table.IDs())

	opts.SheetName = "Nope"
	_, err = NewParser(opts, testLogger()).ReadXLSXFile(path)
	assert.ErrorIs(t, err, apperrors.ErrFileRead)
}

func TestReadXLSXFromReader(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Year", "A"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1950, 3}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	res, err := NewParser(DefaultOptions(), testLogger()).ReadXLSX(&buf)
	require.NoError(t, err)
	assertColumn(t, res.Table, "A", []domain.Width{m(3)})

	_, err = NewParser(DefaultOptions(), testLogger()).ReadXLSX(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, apperrors.ErrFileRead)
}

func TestParserReadFileDispatch(t *testing.T) {
	dir := t.TempDir()
	rwl := "A 1900 100 105 110\nB 1902 95 98\n"
	csvData := "Year,A,B\n1900,1,NA\n1901,1.05,NA\n1902,1.1,0.95\n1903,NA,0.98\n"

	files := map[string]string{
		"site.rwl": rwl,
		"site.RAW": rwl,
		"site.txt": rwl,
		"site.csv": csvData,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	expected, err := ParseRWL(strings.NewReader(rwl))
	require.NoError(t, err)

	for name := range files {
		t.Run(name, func(t *testing.T) {
			table, err := ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.True(t, expected.Equal(table), "table from %s differs", name)
		})
	}

	t.Run("unsupported extension is not opened", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "does-not-exist.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
		assert.NotErrorIs(t, err, apperrors.ErrFileRead)
	})

	t.Run("missing csv", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.csv"))
		assert.ErrorIs(t, err, apperrors.ErrFileRead)
	})
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in     string
		want   domain.Width
		wantOK bool
	}{
		{in: "1.5", want: m(1.5), wantOK: true},
		{in: " 2 ", want: m(2), wantOK: true},
		{in: "0", want: m(0), wantOK: true},
		{in: "", want: na, wantOK: true},
		{in: "NA", want: na, wantOK: true},
		{in: "nan", want: na, wantOK: true},
		{in: "NULL", want: na, wantOK: true},
		{in: "abc", want: na, wantOK: false},
		{in: "Inf", want: na, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseCell(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
