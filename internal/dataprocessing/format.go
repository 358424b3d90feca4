package dataprocessing

import (
	"path/filepath"
	"slices"
	"strings"

	apperrors "dendrocli/internal/errors"
)

// Format identifies which reader handles a file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatRWL  Format = "rwl"
	FormatXLSX Format = "xlsx"
)

var formatsByExt = map[string]Format{
	".csv":  FormatCSV,
	".rwl":  FormatRWL,
	".raw":  FormatRWL,
	".txt":  FormatRWL,
	".xlsx": FormatXLSX,
}

// DetectFormat picks a reader from the file extension, ignoring case
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	return "", apperrors.NewUnsupportedFormatError(path, ext)
}

// SupportedExtensions lists the lower-case extensions DetectFormat accepts, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(formatsByExt))
	for ext := range formatsByExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// IsSupported reports whether path has an extension some reader handles
func IsSupported(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}
