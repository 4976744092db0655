package lint

import (
	"context"
	"fmt"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

// Gateway executes extracted queries against a live database. Implemented
// by *explain.Client; tests substitute a fake.
type Gateway interface {
	Explain(ctx context.Context, q *query.Spec) (*explain.Result, error)
	HasCollection(ctx context.Context, name string) (bool, error)
}

// Linter runs each extracted query through the gateway and classifies the
// execution profile into findings.
type Linter struct {
	Gateway Gateway
	Config  classifier.Config

	// CheckCollections verifies a query's target collection exists before
	// explaining it. Queries against missing collections get an error note
	// instead of a failed explain round trip.
	CheckCollections bool
}

func New(gw Gateway, cfg classifier.Config) *Linter {
	return &Linter{Gateway: gw, Config: cfg}
}

// Run explains and classifies every query in input order. Per-query
// failures become notes on the affected entry and never abort the
// remaining queries.
func (l *Linter) Run(ctx context.Context, specs []query.Spec) *Report {
	report := &Report{
		TotalQueries: len(specs),
		Entries:      make([]Entry, 0, len(specs)),
	}

	for i := range specs {
		entry := l.lintOne(ctx, &specs[i])
		if entry.Error == "" {
			report.QueriesAnalyzed++
		}
		report.IssuesFound += len(entry.Findings)
		report.Entries = append(report.Entries, entry)
	}

	report.Success = report.IssuesFound == 0
	return report
}

func (l *Linter) lintOne(ctx context.Context, q *query.Spec) Entry {
	entry := Entry{Query: *q}

	if !q.CollectionKnown() {
		entry.Error = "could not determine target collection"
		entry.Findings = classifier.Classify(l.Config, q, nil)
		return entry
	}

	if l.CheckCollections {
		ok, err := l.Gateway.HasCollection(ctx, q.Collection)
		if err != nil {
			entry.Error = fmt.Sprintf("check collection: %v", err)
			entry.Findings = classifier.Classify(l.Config, q, nil)
			return entry
		}
		if !ok {
			entry.Error = fmt.Sprintf("collection %q not found in database", q.Collection)
			entry.Findings = classifier.Classify(l.Config, q, nil)
			return entry
		}
	}

	ex, err := l.Gateway.Explain(ctx, q)
	if err != nil {
		entry.Error = err.Error()
		entry.Findings = classifier.Classify(l.Config, q, nil)
		return entry
	}

	entry.Explain = ex
	entry.Findings = classifier.Classify(l.Config, q, ex)
	return entry
}
