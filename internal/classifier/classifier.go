package classifier

import (
	"sort"

	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

// Classify evaluates one extracted query against its execution statistics
// and returns the performance findings, highest severity first. It is a
// pure function of its inputs: the same (cfg, q, ex) always yields the same
// findings in the same order, and queries can be classified in any order.
//
// A nil explain result means no statistics were available (execution
// failed, or the server response carried no executionStats); only the
// syntactic empty-filter check can fire then.
func Classify(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	// An empty filter is detectable before execution, and without a filter
	// the remaining statistics describe nothing worth refining; report it
	// and stop.
	if f := checkEmptyFilter(q); f != nil {
		return []Finding{*f}
	}

	if ex == nil {
		return nil
	}

	var findings []Finding
	for _, rule := range explainRules {
		findings = append(findings, rule(cfg, q, ex)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return severityRank[findings[i].Severity] > severityRank[findings[j].Severity]
	})

	return findings
}
