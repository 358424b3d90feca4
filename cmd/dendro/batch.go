package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dendrocli/internal/config"
	"dendrocli/internal/dataprocessing"
	"dendrocli/internal/exporter"
	"dendrocli/internal/files"
	"dendrocli/internal/infrastructure"
	"dendrocli/internal/validation"
	"dendrocli/pkg/contracts/domain"
)

// batchOptions are the resolved flags of one batch run
type batchOptions struct {
	outDir   string
	pattern  string
	format   exporter.Format
	workers  int
	summary  bool
	manifest bool
}

// batchResult is the outcome for one input file
type batchResult struct {
	Input  string
	Output string
	Series int
	Err    error
}

var manifestHeaders = []string{"run_id", "input", "output", "status", "series", "error"}

func newBatchCmd(a *app) *cobra.Command {
	var (
		opts   batchOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Convert every series file in a directory",
		Long: `The batch command finds every supported file directly inside <dir> and
writes its aligned table to --out-dir, converting several files at once.
--pattern narrows the inputs to a glob such as "*.rwl". The output directory
must differ from <dir>.

A file that fails does not stop the others; the command fails if any did.
Every run appends one row per file to ` + config.BatchManifestFile + ` in the
output directory unless --manifest=false.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.outDir == "" {
				opts.outDir = a.cfg.Batch.OutputDir
			}
			if opts.workers <= 0 {
				opts.workers = a.cfg.Batch.Workers
			}
			if format == "" {
				format = a.cfg.Export.Format
			}
			if format != string(exporter.FormatCSV) && format != string(exporter.FormatXLSX) {
				return &usageError{err: fmt.Errorf("unknown --format %q, want csv or xlsx", format)}
			}
			opts.format = exporter.Format(format)

			ctx := cmd.Context()
			results, err := a.runBatch(ctx, args[0], opts)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INPUT\tSTATUS\tSERIES\tOUTPUT")
			var failures []error
			for _, r := range results {
				if r.Err != nil {
					failures = append(failures, r.Err)
					fmt.Fprintf(tw, "%s\tfailed\t-\t%v\n", filepath.Base(r.Input), r.Err)
					continue
				}
				fmt.Fprintf(tw, "%s\tok\t%d\t%s\n", filepath.Base(r.Input), r.Series, r.Output)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if opts.manifest {
				if err := a.writeManifest(infrastructure.RunID(ctx), opts.outDir, results); err != nil {
					return fmt.Errorf("failed to write batch manifest: %w", err)
				}
			}

			if len(failures) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(failures), len(results), goerrors.Join(failures...))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default from config, \"aligned\")")
	cmd.Flags().StringVar(&opts.pattern, "pattern", "", "only convert files matching this glob, e.g. \"*.rwl\"")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "files converted at once (default from config)")
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or xlsx (default from config)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "also write per-series statistics")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", true, "append a row per file to "+config.BatchManifestFile)
	return cmd
}

// runBatch converts every supported file in dir. Each file is parsed on its own
// goroutine, at most opts.workers at a time; results keep discovery order.
// Only cancellation of ctx aborts the run; per-file failures are reported in the results.
func (a *app) runBatch(ctx context.Context, dir string, opts batchOptions) ([]batchResult, error) {
	validator := validation.NewFileValidator(a.logger)
	if err := validator.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}
	if sameDir(dir, opts.outDir) {
		return nil, &usageError{err: fmt.Errorf("output directory %s is the input directory", opts.outDir)}
	}

	found, err := a.discover(dir, opts.pattern)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		a.logger.Warn("No series files found",
			slog.String("directory", dir),
			slog.String("pattern", opts.pattern),
			slog.Any("extensions", dataprocessing.SupportedExtensions()))
		return nil, nil
	}

	if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
		return nil, err
	}

	outputs := outputPaths(files.Paths(found), opts.outDir, "."+string(opts.format))

	a.logger.Info("Starting batch conversion",
		slog.String("input_dir", dir),
		slog.String("output_dir", opts.outDir),
		slog.Int("files", len(found)),
		slog.Int("workers", opts.workers))

	results := make([]batchResult, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	for i, f := range found {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.convertOne(f.Path, outputs[i], opts.summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	a.logger.Info("Batch conversion finished",
		slog.Int("files", len(results)),
		slog.Int("failed", failed))
	return results, nil
}

// discover lists the series files of dir, narrowed to pattern when one is given.
// Unsupported pattern matches and batch manifests are dropped.
func (a *app) discover(dir, pattern string) ([]files.FileInfo, error) {
	discovery := files.NewDiscovery("")

	var (
		found []files.FileInfo
		err   error
	)
	if pattern == "" {
		found, err = discovery.FindSeriesFiles(dir)
	} else {
		found, err = discovery.FindFilesByPattern(dir, pattern)
		if err != nil {
			err = &usageError{err: err}
		}
	}
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(found, func(f files.FileInfo) bool {
		if f.Name != config.BatchManifestFile && dataprocessing.IsSupported(f.Path) {
			return false
		}
		a.logger.Debug("Skipping file", slog.String("file", f.Path))
		return true
	}), nil
}

func (a *app) convertOne(input, output string, summary bool) batchResult {
	r := batchResult{Input: input, Output: output}

	res, err := a.readInput(input)
	if err != nil {
		r.Err = err
		a.logger.Warn("Skipping file",
			slog.String("file", input),
			slog.String("error", err.Error()))
		return r
	}
	r.Series = res.Table.Len()

	var summaries []domain.SeriesSummary
	if summary {
		summaries = dataprocessing.Summarize(res.Table)
	}
	if _, err := a.export(res.Table, summaries, output); err != nil {
		r.Err = err
	}
	return r
}

// writeManifest records one row per file in the output directory's manifest.
// Later runs append to it; run_id tells them apart.
func (a *app) writeManifest(runID, outDir string, results []batchResult) error {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{runID, r.Input, r.Output, "ok", strconv.Itoa(r.Series), ""}
		if r.Err != nil {
			row = []string{runID, r.Input, "", "failed", "", r.Err.Error()}
		}
		records = append(records, row)
	}

	path := filepath.Join(outDir, config.BatchManifestFile)
	writer := exporter.NewCSVWriter("", a.logger)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return writer.AppendToCSV(path, records)
	case goerrors.Is(err, fs.ErrNotExist):
		return writer.WriteSimpleCSV(path, manifestHeaders, records)
	default:
		return err
	}
}

// outputPaths maps inputs to output files. Inputs sharing a base name
// (site.rwl and site.csv) keep their extension in the output name.
func outputPaths(inputs []string, outDir, ext string) []string {
	stems := make(map[string]int, len(inputs))
	for _, in := range inputs {
		stems[stem(in)]++
	}

	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		outputs[i] = config.OutputPath(in, outDir, ext, stems[stem(in)] > 1)
	}
	return outputs
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sameDir reports whether a and b name the same directory
func sameDir(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
