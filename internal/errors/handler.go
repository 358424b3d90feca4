package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Process exit statuses, one per failure kind
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitUsage             = 2
	ExitUnsupportedFormat = 3
	ExitFileRead          = 4
	ExitEmptyInput        = 5
	ExitInvalidInput      = 6
	ExitCancelled         = 7
	ExitInternal          = 70
)

// ExitCode maps an error to the process exit status reported by the CLI
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case goerrors.Is(err, context.Canceled), goerrors.Is(err, context.DeadlineExceeded):
		return ExitCancelled
	case goerrors.Is(err, ErrUnsupportedFormat):
		return ExitUnsupportedFormat
	case goerrors.Is(err, ErrFileRead):
		return ExitFileRead
	case goerrors.Is(err, ErrEmptyInput):
		return ExitEmptyInput
	case goerrors.Is(err, ErrContinuity), goerrors.Is(err, ErrMalformedLine):
		return ExitInvalidInput
	}
	var inv *AlignmentInvariantError
	if goerrors.As(err, &inv) {
		return ExitInternal
	}
	return ExitFailure
}

// ErrorHandler logs command failures and converts them to exit statuses
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err with whatever structure it carries and returns its exit status
func (h *ErrorHandler) HandleError(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("exit_code", ExitCode(err)),
	}
	var readErr *ReadError
	if goerrors.As(err, &readErr) {
		if readErr.Path != "" {
			attrs = append(attrs, slog.String("path", readErr.Path))
		}
		if readErr.Line > 0 {
			attrs = append(attrs, slog.Int("line", readErr.Line))
		}
		if readErr.Series != "" {
			attrs = append(attrs, slog.String("series", readErr.Series))
		}
	}

	h.logger.ErrorContext(ctx, "command failed", attrs...)
	return ExitCode(err)
}

// HandlePanic converts a recovered panic into an error and exit status.
// Alignment invariant violations keep their type so callers can tell them apart.
func (h *ErrorHandler) HandlePanic(ctx context.Context, recovered any) (int, error) {
	var err error
	switch v := recovered.(type) {
	case *AlignmentInvariantError:
		err = v
	case error:
		err = fmt.Errorf("panic: %w", v)
	default:
		err = fmt.Errorf("panic: %v", v)
	}

	attrs := []any{slog.String("error", err.Error())}
	if h.includeStack {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	h.logger.ErrorContext(ctx, "internal error", attrs...)
	return ExitInternal, err
}
