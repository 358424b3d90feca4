package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dendrocli/pkg/contracts/domain"
)

// Start years must lie within MinYear..MaxYear
const (
	MinYear = -100000
	MaxYear = 100000
)

// Line is one tokenized record of an RWL file
type Line struct {
	Number    int // 1-based position in the file; zero when unknown
	ID        string
	StartYear int
	Tokens    []string // raw measurement tokens, unscaled
}

// TokenizeLine splits a line on whitespace into identifier, start year and measurement tokens.
// It fails only when the identifier or start year is absent, or the year is not an
// integer within MinYear..MaxYear; measurement tokens are returned verbatim.
func TokenizeLine(line string) (Line, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Line{}, fmt.Errorf("expected identifier and start year, got %d field(s)", len(fields))
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return Line{}, fmt.Errorf("start year %q is not an integer: %w", fields[1], err)
	}
	if err := checkYear(year); err != nil {
		return Line{}, err
	}

	return Line{
		ID:        fields[0],
		StartYear: year,
		Tokens:    fields[2:],
	}, nil
}

// ParseMeasurement converts one raw token into a width divided by scale.
// ok is false when the token is not a finite number; the width is then Missing.
func ParseMeasurement(token string, scale float64) (w domain.Width, ok bool) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Missing, false
	}
	return domain.Measured(v / scale), true
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d outside %d..%d", year, MinYear, MaxYear)
	}
	return nil
}

// isStopMarker reports whether token is a Tucson end-of-series sentinel
func isStopMarker(token string) bool {
	return token == "999" || token == "-9999"
}
