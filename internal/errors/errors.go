package errors

import (
	goerrors "errors"
	"fmt"
)

// Sentinel kinds. Match them with errors.Is; a *ReadError unwraps to its kind and its cause.
var (
	ErrUnsupportedFormat = goerrors.New("unsupported file format")
	ErrFileRead          = goerrors.New("file could not be read")
	ErrEmptyInput        = goerrors.New("no parsable series")
	ErrContinuity        = goerrors.New("continuation line out of sequence")
	ErrMalformedLine     = goerrors.New("malformed line")
)

// ReadError describes why a series file could not be turned into a table
type ReadError struct {
	Kind    error  `json:"-"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Series  string `json:"series,omitempty"`
	Message string `json:"message,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *ReadError) Error() string {
	if e == nil {
		return "unknown read error"
	}
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Series != "" {
		msg = fmt.Sprintf("%s [series %s]", msg, e.Series)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause
func (e *ReadError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// WithPath returns a copy of e annotated with the file it came from
func (e *ReadError) WithPath(path string) *ReadError {
	c := *e
	c.Path = path
	return &c
}

// NewUnsupportedFormatError reports a file extension no reader handles
func NewUnsupportedFormatError(path, ext string) *ReadError {
	return &ReadError{
		Kind:    ErrUnsupportedFormat,
		Path:    path,
		Message: fmt.Sprintf("extension %q is not one of .csv, .rwl, .raw, .txt, .xlsx", ext),
	}
}

// NewFileReadError wraps an I/O failure
func NewFileReadError(path string, cause error) *ReadError {
	return &ReadError{
		Kind:  ErrFileRead,
		Path:  path,
		Cause: cause,
	}
}

// NewEmptyInputError reports input without a single usable series
func NewEmptyInputError(message string) *ReadError {
	return &ReadError{
		Kind:    ErrEmptyInput,
		Message: message,
	}
}

// NewContinuityError reports a continuation line that does not start where the series left off
func NewContinuityError(line int, series string, expected, got int) *ReadError {
	return &ReadError{
		Kind:    ErrContinuity,
		Line:    line,
		Series:  series,
		Message: fmt.Sprintf("expected start year %d, got %d", expected, got),
	}
}

// NewMalformedLineError reports a line missing its identifier or start year
func NewMalformedLineError(line int, message string, cause error) *ReadError {
	return &ReadError{
		Kind:    ErrMalformedLine,
		Line:    line,
		Message: message,
		Cause:   cause,
	}
}

// AlignmentInvariantError is the panic value raised when padding would be negative.
// It signals a defect in range calculation or accumulation, never bad input.
type AlignmentInvariantError struct {
	Series    string
	StartYear int
	Length    int
	FirstYear int
	LastYear  int
	Leading   int
	Trailing  int
}

// Error implements the error interface
func (e *AlignmentInvariantError) Error() string {
	return fmt.Sprintf(
		"alignment invariant violated for series %q (start=%d len=%d range=%d..%d): leading=%d trailing=%d",
		e.Series, e.StartYear, e.Length, e.FirstYear, e.LastYear, e.Leading, e.Trailing)
}
