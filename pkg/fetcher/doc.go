// Package fetcher orchestrates a board run end to end.
//
// The pipeline is a single sequential flow: enumerate items per type,
// classify each, probe candidates for SVG content, resolve a unique
// filename and write the file. Per-item failures never stop the run; a
// failed item type is skipped and noted; only an authentication error
// aborts. The run's outcome is a Stats value reported exactly once.
package fetcher
