package fetcher

// Stats accumulates the outcome of a single board run. It is reported once
// after the run completes; zero saves is a valid result, not a failure.
type Stats struct {
	// Scanned counts every item the listing yielded
	Scanned int
	// Candidates counts items that passed classification
	Candidates int
	// Saved counts files written to the output directory
	Saved int
	// OriginalNames counts saves named from the item's declared filename
	OriginalNames int
	// GeneratedNames counts saves that fell back to a generated name
	GeneratedNames int
	// Misses counts candidates whose every URL variant came up empty
	Misses int
	// WriteFailures counts saves skipped because the local write failed
	WriteFailures int
	// SkippedTypes lists item types abandoned after repeated listing
	// failures
	SkippedTypes []string
}
