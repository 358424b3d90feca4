// Package exporter writes aligned tree-ring tables to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Renders an aligned table as Year-indexed CSV rows, missing
// years as a configurable marker, plus per-series summary CSVs.
//
// XLSXWriter: Writes the same table to a workbook, with an optional Summary sheet.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter("out", logger)
//	tables := exporter.NewTableExporter(csvWriter, exporter.DefaultTableOptions(), logger)
//
//	// Export the aligned table
//	err := tables.ExportCSV(table, "site.csv")
//
//	// Export a workbook with summaries
//	xlsx := exporter.NewXLSXWriter(exporter.DefaultTableOptions(), logger)
//	err = xlsx.Export(table, dataprocessing.Summarize(table), "out/site.xlsx")
package exporter
