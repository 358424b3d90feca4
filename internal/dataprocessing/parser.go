package dataprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "dendrocli/internal/errors"
	"dendrocli/pkg/contracts/domain"
)

// ParseStats describes the input behind a parsed table.
// Malformed tokens are kept in the table as Missing; the counts here are the
// only place they surface.
type ParseStats struct {
	Format            Format         `json:"format"`
	Lines             int            `json:"lines"`
	BlankLines        int            `json:"blank_lines"`
	Series            int            `json:"series"`
	Measurements      int            `json:"measurements"`
	MalformedTokens   int            `json:"malformed_tokens"`
	StopMarkers       int            `json:"stop_markers"`
	MalformedBySeries map[string]int `json:"malformed_by_series,omitempty"`
}

// Result is a parsed table together with its input statistics
type Result struct {
	Table *domain.AlignedTable
	Stats ParseStats
}

// Parser reads series files into aligned tables
type Parser struct {
	opts   Options
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(opts Options, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		opts:   opts.normalized(),
		logger: logger,
	}
}

// Options returns the effective options
func (p *Parser) Options() Options {
	return p.opts
}

// ParseRWL reads RWL content from r with default options
func ParseRWL(r io.Reader) (*domain.AlignedTable, error) {
	res, err := NewParser(DefaultOptions(), nil).Parse(r)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Parse reads all of r, then tokenizes, accumulates, computes the year range,
// pads and assembles. Each phase completes before the next starts.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewFileReadError("", err)
	}
	return p.parseBytes(data)
}

// ParseFile reads an RWL file from disk
func (p *Parser) ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFileReadError(path, err)
	}

	res, err := p.parseBytes(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	return res, nil
}

func (p *Parser) parseBytes(data []byte) (*Result, error) {
	stats := ParseStats{
		Format:            FormatRWL,
		MalformedBySeries: make(map[string]int),
	}

	var ds domain.RawDataset
	lines := bytes.Split(data, []byte("\n"))
	for i, raw := range lines {
		text := strings.TrimRight(string(raw), "\r")
		if strings.TrimSpace(text) == "" {
			// a trailing newline produces one empty final element, which is not a line
			if i < len(lines)-1 || text != "" {
				stats.BlankLines++
			}
			continue
		}
		stats.Lines++

		line, err := TokenizeLine(text)
		if err != nil {
			return nil, apperrors.NewMalformedLineError(i+1, "cannot tokenize line", err)
		}
		line.Number = i + 1

		next, lineRes, err := Accumulate(ds, line, p.opts)
		if err != nil {
			return nil, err
		}
		ds = next

		stats.Measurements += lineRes.Measurements
		if lineRes.Malformed > 0 {
			stats.MalformedTokens += lineRes.Malformed
			stats.MalformedBySeries[line.ID] += lineRes.Malformed
		}
		if lineRes.StopMarker {
			stats.StopMarkers++
		}
	}
	stats.Series = ds.Len()

	p.logger.Debug("RWL header detail",
		slog.Int("series_count", ds.Len()),
		slog.Any("series", ds.IDs()))

	table, err := Align(ds)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Parsed RWL input",
		slog.Int("lines", stats.Lines),
		slog.Int("series", stats.Series),
		slog.Int("first_year", table.FirstYear()),
		slog.Int("last_year", table.LastYear()),
		slog.Int("malformed_tokens", stats.MalformedTokens))
	if stats.MalformedTokens > 0 {
		p.logger.Warn("Malformed measurement tokens stored as missing",
			slog.Int("count", stats.MalformedTokens),
			slog.Any("by_series", stats.MalformedBySeries))
	}

	return &Result{Table: table, Stats: stats}, nil
}

// withPath annotates read errors with the file they came from.
// A ReadError anywhere in the chain was created by this read and gets its Path set in place.
func withPath(err error, path string) error {
	var readErr *apperrors.ReadError
	if !errors.As(err, &readErr) {
		return fmt.Errorf("%s: %w", path, err)
	}
	if readErr.Path == "" {
		readErr.Path = path
	}
	return err
}
