package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dendrocli/internal/config"
	"dendrocli/internal/dataprocessing"
	"dendrocli/internal/exporter"
	"dendrocli/internal/validation"
	"dendrocli/pkg/contracts"
	"dendrocli/pkg/contracts/domain"
)

// readInput validates and parses one series file with the configured options
func (a *app) readInput(path string) (*dataprocessing.Result, error) {
	if err := validation.NewFileValidator(a.logger).ValidateSeriesFile(path); err != nil {
		return nil, err
	}
	return dataprocessing.NewParser(a.cfg.Parse.Options(), a.logger).ReadFile(path)
}

func (a *app) tableExporter(csvWriter *exporter.CSVWriter) *exporter.TableExporter {
	return exporter.NewTableExporter(csvWriter, a.cfg.Export.TableOptions(), a.logger)
}

// tableJSON is the shape printed by "read --output json"
type tableJSON struct {
	Format    string                    `json:"table_format"`
	FirstYear int                       `json:"first_year"`
	LastYear  int                       `json:"last_year"`
	Years     []int                     `json:"years"`
	Series    []domain.Column           `json:"series"`
	Stats     dataprocessing.ParseStats `json:"stats"`
}

func newReadCmd(a *app) *cobra.Command {
	var (
		output string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print the aligned table of a series file",
		Long: `The read command parses a .rwl, .raw, .txt, .csv or .xlsx file and prints
one row per year with one column per series. Years a series does not cover
are printed as the configured missing marker.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "tsv", "csv", "json":
			default:
				return &usageError{err: fmt.Errorf("unknown --output %q, want tsv, csv or json", output)}
			}

			res, err := a.readInput(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tableJSON{
					Format:    contracts.TableFormatVersion,
					FirstYear: res.Table.FirstYear(),
					LastYear:  res.Table.LastYear(),
					Years:     res.Table.Years(),
					Series:    res.Table.Columns(),
					Stats:     res.Stats,
				})
			case "csv":
				err = a.tableExporter(nil).WriteTable(out, res.Table, ',')
			default:
				err = a.tableExporter(nil).WriteTable(out, res.Table, '\t')
			}
			if err != nil {
				return err
			}

			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "series=%d years=%d-%d lines=%d measurements=%d malformed_tokens=%d\n",
					res.Stats.Series, res.Table.FirstYear(), res.Table.LastYear(),
					res.Stats.Lines, res.Stats.Measurements, res.Stats.MalformedTokens)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "O", "tsv", "output format: tsv, csv, json")
	cmd.Flags().BoolVar(&stats, "stats", false, "print parse statistics to stderr")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the aligned table to a CSV or XLSX file",
		Long: `The export command parses a series file and writes the aligned table. The
format follows the extension of --out (.csv or .xlsx), falling back to the
configured export format.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return &usageError{err: fmt.Errorf("--out is required")}
			}

			res, err := a.readInput(args[0])
			if err != nil {
				return err
			}

			var summaries []domain.SeriesSummary
			if summary {
				summaries = dataprocessing.Summarize(res.Table)
			}

			written, err := a.export(res.Table, summaries, outPath)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.csv or .xlsx)")
	cmd.Flags().BoolVar(&summary, "summary", false, "also write per-series statistics")
	return cmd
}

// export writes table (and summaries, if any) to outPath and returns the files written
func (a *app) export(table *domain.AlignedTable, summaries []domain.SeriesSummary, outPath string) ([]string, error) {
	format := exporter.FormatForPath(outPath, exporter.Format(a.cfg.Export.Format))

	if format == exporter.FormatXLSX {
		xlsx := exporter.NewXLSXWriter(a.cfg.Export.TableOptions(), a.logger)
		if err := xlsx.Export(table, summaries, outPath); err != nil {
			return nil, err
		}
		return []string{outPath}, nil
	}

	tables := a.tableExporter(exporter.NewCSVWriter("", a.logger))
	if err := tables.ExportCSV(table, outPath); err != nil {
		return nil, err
	}
	written := []string{outPath}

	if len(summaries) > 0 {
		summaryPath := config.SummaryPath(outPath)
		if err := tables.ExportSummaryCSV(summaries, summaryPath); err != nil {
			return nil, err
		}
		written = append(written, summaryPath)
	}
	return written, nil
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print per-series statistics",
		Long: `The summary command prints, for every series in input order, its first and
last measured year, the number of measurements, missing years inside that
span, and the sum, mean, minimum and maximum width.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.readInput(args[0])
			if err != nil {
				return err
			}

			summaries := dataprocessing.Summarize(res.Table)
			a.logger.Debug("Summarized series",
				slog.Int("series", len(summaries)))
			return a.tableExporter(nil).WriteSummary(cmd.OutOrStdout(), summaries, '\t')
		},
	}
}

func newVersionCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), contracts.CurrentBuild())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), contracts.VersionString())
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "include build details")
	return cmd
}
