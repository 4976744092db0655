package classifier

// Config holds the thresholds the rules compare execution statistics
// against. Callers pass it explicitly so boundary values are testable;
// there is no process-wide state.
type Config struct {
	// SlowQueryMillis is the execution time at or above which a query is
	// reported as slow. The boundary is inclusive.
	SlowQueryMillis float64

	// LargeScanDocs is the documents-examined count above which a query is
	// reported as a large scan. The boundary is exclusive.
	LargeScanDocs int64

	// SelectivityRatio is the examined-to-returned ratio beyond which a
	// large scan is additionally called out as an index-selectivity
	// problem.
	SelectivityRatio float64
}

func DefaultConfig() Config {
	return Config{
		SlowQueryMillis:  100,
		LargeScanDocs:    1000,
		SelectivityRatio: 10,
	}
}
