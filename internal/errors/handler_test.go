package errors

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"unsupported", NewUnsupportedFormatError("a.doc", ".doc"), ExitUnsupportedFormat},
		{"file read", NewFileReadError("a.rwl", goerrors.New("boom")), ExitFileRead},
		{"empty", NewEmptyInputError(""), ExitEmptyInput},
		{"continuity", NewContinuityError(2, "A", 1910, 1911), ExitInvalidInput},
		{"malformed", NewMalformedLineError(1, "bad", nil), ExitInvalidInput},
		{"wrapped", fmt.Errorf("outer: %w", NewEmptyInputError("")), ExitEmptyInput},
		{"cancelled", context.Canceled, ExitCancelled},
		{"invariant", &AlignmentInvariantError{Series: "A"}, ExitInternal},
		{"other", goerrors.New("something else"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := NewErrorHandler(logger, false)

	code := h.HandleError(context.Background(), NewContinuityError(12, "XYZ", 1950, 1960).WithPath("site.rwl"))

	assert.Equal(t, ExitInvalidInput, code)
	out := buf.String()
	assert.Contains(t, out, `"msg":"command failed"`)
	assert.Contains(t, out, `"path":"site.rwl"`)
	assert.Contains(t, out, `"line":12`)
	assert.Contains(t, out, `"series":"XYZ"`)
	assert.Contains(t, out, `"component":"error_handler"`)

	assert.Equal(t, ExitOK, h.HandleError(context.Background(), nil))
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(slog.New(slog.NewTextHandler(&buf, nil)), true)

	inv := &AlignmentInvariantError{Series: "A", Leading: -2}
	code, err := h.HandlePanic(context.Background(), inv)
	assert.Equal(t, ExitInternal, code)
	assert.Same(t, inv, err)
	assert.Contains(t, buf.String(), "stack=")

	code, err = h.HandlePanic(context.Background(), "plain string")
	assert.Equal(t, ExitInternal, code)
	assert.EqualError(t, err, "panic: plain string")
}
