// Package files provides file discovery utilities for dendrocli.
//
// Discovery finds the series files a batch run should convert: every file in a
// directory whose extension one of the dataprocessing readers handles, or every
// file matching a glob pattern.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	found, err := discovery.FindSeriesFiles("chronologies")
//	for _, f := range found {
//	    fmt.Println(f.Path, f.Size)
//	}
package files
