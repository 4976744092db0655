package explain

// Result is the distilled execution profile of one explained query. A nil
// Result means the server response carried no execution statistics.
type Result struct {
	Namespace string `json:"namespace,omitempty"`

	// Winning plan shape, top stage first.
	Stages []string `json:"stages,omitempty"`

	// Index chosen by the winning plan; empty when none was used.
	// IndexKeys lists the key pattern fields in index order.
	IndexName string   `json:"index_used,omitempty"`
	IndexKeys []string `json:"index_keys,omitempty"`

	// CollectionScan is set when the winning plan reads the whole
	// collection without an index.
	CollectionScan bool `json:"collection_scan"`

	ExecutionTimeMillis float64 `json:"execution_time_ms"`
	DocsExamined        int64   `json:"documents_examined"`
	DocsReturned        int64   `json:"documents_returned"`
}

// IndexCovers reports whether the chosen index has field among its keys.
func (r *Result) IndexCovers(field string) bool {
	for _, k := range r.IndexKeys {
		if k == field {
			return true
		}
	}
	return false
}

// IndexPrefixCoverage counts how long a prefix of the index key order is
// made up of the given fields. A compound index (a, b, c) queried on
// {b, c} covers nothing; queried on {a, c} it covers one key.
func (r *Result) IndexPrefixCoverage(fields []string) int {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}

	covered := 0
	for _, k := range r.IndexKeys {
		if !set[k] {
			break
		}
		covered++
	}
	return covered
}
