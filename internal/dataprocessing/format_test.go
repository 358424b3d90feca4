package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dendrocli/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.csv", want: FormatCSV},
		{path: "dir/a.CSV", want: FormatCSV},
		{path: "a.rwl", want: FormatRWL},
		{path: "a.raw", want: FormatRWL},
		{path: "a.Txt", want: FormatRWL},
		{path: "a.xlsx", want: FormatXLSX},
		{path: "a.xls", wantErr: true},
		{path: "a.json", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				assert.False(t, IsSupported(tt.path))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSupported(tt.path))
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".csv", ".raw", ".rwl", ".txt", ".xlsx"}, SupportedExtensions())
}
