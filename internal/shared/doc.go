// Package shared holds helpers used across dendrocli packages that belong to no
// single layer.
//
// testutil: a recording slog handler and assertions for tests that check what
// a component logged.
package shared
