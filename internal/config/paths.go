package config

import (
	"path/filepath"
	"strings"
)

// OutputPath names the file a converted input is written to: the input's base
// name with ext, inside outputDir. Inputs that differ only by extension
// (site.rwl, site.csv) would collide, so the original extension is kept in
// the name when keepExt is set.
func OutputPath(inputPath, outputDir, ext string, keepExt bool) string {
	base := filepath.Base(inputPath)
	origExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, origExt)
	if keepExt && origExt != "" {
		stem += "_" + strings.TrimPrefix(strings.ToLower(origExt), ".")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(outputDir, stem+ext)
}

// SummaryPath names the summary file written next to an exported table
func SummaryPath(tablePath string) string {
	ext := filepath.Ext(tablePath)
	return strings.TrimSuffix(tablePath, ext) + "_summary" + ext
}
