// Package dataprocessing turns tree-ring measurement files into year-aligned tables.
//
// # Architecture
//
// RWL input runs through four phases, each finished before the next begins:
//
// 1. Tokenize and accumulate: every line becomes a Line (identifier, start year,
// raw tokens) and is folded into an immutable domain.RawDataset
// 2. Range: YearRange finds the first start year and the last measured year
// 3. Pad: PadSeries places each record on that grid, missing years as domain.Missing
// 4. Assemble: AssembleTable builds a domain.AlignedTable in first-appearance order
//
// # Usage
//
// Read any supported file:
//
//	table, err := dataprocessing.ReadFile("site.rwl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Keep the input statistics, including malformed token counts:
//
//	parser := dataprocessing.NewParser(dataprocessing.DefaultOptions(), logger)
//	res, err := parser.ReadFile("site.rwl")
//	fmt.Println(res.Stats.MalformedTokens)
//
// Summaries per series:
//
//	summaries := dataprocessing.Summarize(res.Table)
//
// # Data Flow
//
//	file → Tokenizer → Accumulator → YearRange → PadSeries → AssembleTable → AlignedTable
//
// # Error Handling
//
// Failures are *errors.ReadError values matching the sentinels in internal/errors:
//
//	- ErrUnsupportedFormat: extension not handled, nothing is opened
//	- ErrFileRead: the file could not be opened or read
//	- ErrEmptyInput: no series with measurements
//	- ErrContinuity: a continuation line does not start where its series left off
//	- ErrMalformedLine: a line lacks an identifier or an integer start year
//
// A token that is not a number never fails a parse; it is stored as missing and
// counted in ParseStats. A negative padding count panics with
// *errors.AlignmentInvariantError, since it can only come from a defect here.
//
// # Resource Model
//
// A parse is single-threaded and holds the whole file, the raw dataset and the
// aligned table in memory at once.
package dataprocessing
