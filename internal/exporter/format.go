package exporter

import (
	"path/filepath"
	"strconv"
	"strings"

	"dendrocli/pkg/contracts/domain"
)

// Format names an output file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatForPath picks the output format from the file extension, falling back
// to fallback for anything else
func FormatForPath(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return fallback
}

// formatFloat formats a value with a fixed number of decimals; a negative
// precision selects the shortest representation that round-trips
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// formatWidth renders a table cell
func formatWidth(w domain.Width, missing string, precision int) string {
	if w.IsMissing() {
		return missing
	}
	return formatFloat(w.Value, precision)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
