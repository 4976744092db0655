package lint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

// Entry pairs one extracted query with its execution profile and findings.
// Error carries a per-query note (unknown collection, failed explain); an
// entry with an Error set has no Explain but may still carry syntactic
// findings.
type Entry struct {
	Query    query.Spec           `json:"query"`
	Explain  *explain.Result      `json:"explain,omitempty"`
	Findings []classifier.Finding `json:"findings,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// Report aggregates one lint run. Entries keep the extraction order so CI
// output is reproducible across runs.
type Report struct {
	Success         bool    `json:"success"`
	TotalQueries    int     `json:"total_queries"`
	QueriesAnalyzed int     `json:"queries_analyzed"`
	IssuesFound     int     `json:"issues_found"`
	PRNumber        string  `json:"pr_number,omitempty"`
	Entries         []Entry `json:"queries"`
}

// MaxSeverity returns the highest severity across all entries, empty when
// the report is clean.
func (r *Report) MaxSeverity() classifier.Severity {
	var all []classifier.Finding
	for _, e := range r.Entries {
		all = append(all, e.Findings...)
	}
	return classifier.MaxSeverity(all)
}

// HasSeverity reports whether any finding carries the given severity.
func (r *Report) HasSeverity(sev classifier.Severity) bool {
	return r.CountSeverity(sev) > 0
}

// CountSeverity counts the findings carrying the given severity.
func (r *Report) CountSeverity(sev classifier.Severity) int {
	n := 0
	for _, e := range r.Entries {
		for _, f := range e.Findings {
			if f.Severity == sev {
				n++
			}
		}
	}
	return n
}

// ParseReport decodes a report previously rendered as JSON.
func ParseReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

// LoadReport reads and decodes a report file.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return ParseReport(data)
}
