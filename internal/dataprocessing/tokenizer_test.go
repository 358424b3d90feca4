package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Line
		wantErr string
	}{
		{
			name: "identifier year and tokens",
			line: "A 1900 100 105 110",
			want: Line{ID: "A", StartYear: 1900, Tokens: []string{"100", "105", "110"}},
		},
		{
			name: "mixed whitespace",
			line: "\tQ12  1850\t 7   8 ",
			want: Line{ID: "Q12", StartYear: 1850, Tokens: []string{"7", "8"}},
		},
		{
			name: "no measurements",
			line: "A 1900",
			want: Line{ID: "A", StartYear: 1900, Tokens: []string{}},
		},
		{
			name: "malformed tokens kept verbatim",
			line: "A 1900 1 x 3",
			want: Line{ID: "A", StartYear: 1900, Tokens: []string{"1", "x", "3"}},
		},
		{
			name:    "identifier only",
			line:    "A",
			wantErr: "got 1 field(s)",
		},
		{
			name:    "empty",
			line:    "   ",
			wantErr: "got 0 field(s)",
		},
		{
			name: "negative and boundary years",
			line: "A -100000 1",
			want: Line{ID: "A", StartYear: MinYear, Tokens: []string{"1"}},
		},
		{
			name:    "year beyond range",
			line:    "A 19000000000 1",
			wantErr: "year 19000000000 outside -100000..100000",
		},
		{
			name:    "year at int64 limit",
			line:    "A 9223372036854775807 100 105",
			wantErr: "outside",
		},
		{
			name:    "year below range",
			line:    "A -100001 1",
			wantErr: "outside",
		},
		{
			name:    "year not an integer",
			line:    "A 1900.5 1",
			wantErr: `start year "1900.5" is not an integer`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenizeLine(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMeasurement(t *testing.T) {
	tests := []struct {
		token  string
		scale  float64
		want   float64
		wantOK bool
	}{
		{token: "100", scale: 100, want: 1, wantOK: true},
		{token: "105", scale: 100, want: 1.05, wantOK: true},
		{token: "0", scale: 100, want: 0, wantOK: true},
		{token: "-5", scale: 100, want: -0.05, wantOK: true},
		{token: "12.5", scale: 100, want: 0.125, wantOK: true},
		{token: "1500", scale: 1000, want: 1.5, wantOK: true},
		{token: "x7", scale: 100, wantOK: false},
		{token: "NaN", scale: 100, wantOK: false},
		{token: "Inf", scale: 100, wantOK: false},
		{token: "", scale: 100, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseMeasurement(tt.token, tt.scale)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOK, got.Valid)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got.Value, 1e-12)
				assert.False(t, math.IsNaN(got.Value))
			}
		})
	}
}

func TestIsStopMarker(t *testing.T) {
	assert.True(t, isStopMarker("999"))
	assert.True(t, isStopMarker("-9999"))
	assert.False(t, isStopMarker("9999"))
	assert.False(t, isStopMarker("99"))
}
