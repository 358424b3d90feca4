package dataprocessing

// DefaultScale is the divisor turning raw RWL integers into natural ring-width units
const DefaultScale = 100.0

// Options configures how series files are interpreted
type Options struct {
	// Scale divides every raw RWL measurement token (100 for 0.01 mm files, 1000 for 0.001 mm)
	Scale float64

	// DropStopMarkers discards a trailing 999 or -9999 token, the Tucson end-of-series sentinel
	DropStopMarkers bool

	// SheetName selects the worksheet for .xlsx input; empty means the first sheet
	SheetName string
}

// DefaultOptions returns default parsing options
func DefaultOptions() Options {
	return Options{
		Scale:           DefaultScale,
		DropStopMarkers: false,
	}
}

// normalized fills zero values with defaults
func (o Options) normalized() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}
