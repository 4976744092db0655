package comparator

import (
	"testing"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/lint"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

func cleanEntry(coll string, millis float64) lint.Entry {
	return lint.Entry{
		Query: query.Spec{Collection: coll, Operation: "find", Raw: "{status: 'active'}"},
		Explain: &explain.Result{
			Stages:              []string{"FETCH", "IXSCAN"},
			IndexName:           "status_1",
			IndexKeys:           []string{"status"},
			ExecutionTimeMillis: millis,
			DocsExamined:        5,
			DocsReturned:        5,
		},
	}
}

func scanEntry(coll string, millis float64) lint.Entry {
	return lint.Entry{
		Query: query.Spec{Collection: coll, Operation: "find", Raw: "{status: 'active'}"},
		Explain: &explain.Result{
			Stages:              []string{"COLLSCAN"},
			CollectionScan:      true,
			ExecutionTimeMillis: millis,
			DocsExamined:        5000,
			DocsReturned:        5,
		},
		Findings: []classifier.Finding{
			{
				Severity:   classifier.SeverityHigh,
				Category:   classifier.CategoryCollectionScan,
				Collection: coll,
				Message:    "full collection scan on " + coll,
			},
		},
	}
}

func reportOf(entries ...lint.Entry) *lint.Report {
	r := &lint.Report{TotalQueries: len(entries), Entries: entries}
	for _, e := range entries {
		if e.Error == "" {
			r.QueriesAnalyzed++
		}
		r.IssuesFound += len(e.Findings)
	}
	r.Success = r.IssuesFound == 0
	return r
}

func requireDeltas(t *testing.T, result ComparisonResult, want int) {
	t.Helper()
	if len(result.Deltas) != want {
		t.Fatalf("expected %d deltas, got %d: %+v", want, len(result.Deltas), result.Deltas)
	}
}

func TestCompare_IdenticalReports(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 1.5), cleanEntry("orders", 2.0))
	newReport := reportOf(cleanEntry("users", 1.5), cleanEntry("orders", 2.0))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 2)
	for _, d := range result.Deltas {
		if d.ChangeType != NoChange {
			t.Errorf("delta for %s: expected no_change, got %s", d.Collection, d.ChangeType)
		}
	}
	if result.Summary.Verdict != "unchanged" {
		t.Errorf("expected verdict unchanged, got %s", result.Summary.Verdict)
	}
	if result.Summary.QueriesModified != 0 || result.Summary.QueriesAdded != 0 || result.Summary.QueriesRemoved != 0 {
		t.Errorf("expected zero change counts, got %+v", result.Summary)
	}
}

func TestCompare_IntroducedScanRegresses(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 1.5))
	newReport := reportOf(scanEntry("users", 1.6))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if d.ChangeType != Modified {
		t.Fatalf("expected modified, got %s", d.ChangeType)
	}
	if len(d.Introduced) != 1 || d.Introduced[0] != string(classifier.CategoryCollectionScan) {
		t.Errorf("expected introduced [collection-scan], got %v", d.Introduced)
	}
	if len(d.Resolved) != 0 {
		t.Errorf("expected nothing resolved, got %v", d.Resolved)
	}
	if d.NewSeverity != classifier.SeverityHigh {
		t.Errorf("expected new severity HIGH, got %q", d.NewSeverity)
	}
	if result.Summary.NewHigh != 1 {
		t.Errorf("expected 1 new HIGH query, got %d", result.Summary.NewHigh)
	}
	if result.Summary.Verdict != "regressed" {
		t.Errorf("expected verdict regressed, got %s", result.Summary.Verdict)
	}
}

func TestCompare_ResolvedScanImproves(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(scanEntry("users", 40))
	newReport := reportOf(cleanEntry("users", 1.5))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if len(d.Resolved) != 1 || d.Resolved[0] != string(classifier.CategoryCollectionScan) {
		t.Errorf("expected resolved [collection-scan], got %v", d.Resolved)
	}
	if result.Summary.IssuesDelta != -1 {
		t.Errorf("expected issues delta -1, got %d", result.Summary.IssuesDelta)
	}
	if result.Summary.Verdict != "improved" {
		t.Errorf("expected verdict improved, got %s", result.Summary.Verdict)
	}
}

func TestCompare_AddedAndRemovedQueries(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 1.5))
	newReport := reportOf(cleanEntry("orders", 2.0))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 2)
	if result.Deltas[0].ChangeType != Removed || result.Deltas[0].Collection != "users" {
		t.Errorf("expected first delta removed users, got %s %s",
			result.Deltas[0].ChangeType, result.Deltas[0].Collection)
	}
	if result.Deltas[1].ChangeType != Added || result.Deltas[1].Collection != "orders" {
		t.Errorf("expected second delta added orders, got %s %s",
			result.Deltas[1].ChangeType, result.Deltas[1].Collection)
	}
	if result.Summary.QueriesAdded != 1 || result.Summary.QueriesRemoved != 1 {
		t.Errorf("expected 1 added 1 removed, got %+v", result.Summary)
	}
}

func TestCompare_AddedScanCountsAsNewHigh(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf()
	newReport := reportOf(scanEntry("users", 40))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if d.ChangeType != Added {
		t.Fatalf("expected added, got %s", d.ChangeType)
	}
	if len(d.Introduced) != 1 {
		t.Errorf("expected the scan finding introduced, got %v", d.Introduced)
	}
	if result.Summary.OldQueries != 0 || result.Summary.NewQueries != 1 {
		t.Errorf("expected query counts 0 and 1, got %d and %d",
			result.Summary.OldQueries, result.Summary.NewQueries)
	}
	if result.Summary.NewHigh != 1 {
		t.Errorf("expected 1 new HIGH query, got %d", result.Summary.NewHigh)
	}
	if result.Summary.Verdict != "regressed" {
		t.Errorf("expected verdict regressed, got %s", result.Summary.Verdict)
	}
}

func TestCompare_RemovedScanDoesNotCountAsNewHigh(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(scanEntry("users", 40))
	newReport := reportOf()

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	if result.Summary.NewHigh != 0 {
		t.Errorf("expected no new HIGH queries, got %d", result.Summary.NewHigh)
	}
	if result.Summary.Verdict != "improved" {
		t.Errorf("expected verdict improved, got %s", result.Summary.Verdict)
	}
}

func TestCompare_DuplicateQueriesPairInOrder(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 1.0), cleanEntry("users", 2.0))
	newReport := reportOf(cleanEntry("users", 1.0), cleanEntry("users", 2.0))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 2)
	if result.Deltas[0].OldTime != 1.0 || result.Deltas[0].NewTime != 1.0 {
		t.Errorf("first pair mismatched: old %.1f new %.1f",
			result.Deltas[0].OldTime, result.Deltas[0].NewTime)
	}
	if result.Deltas[1].OldTime != 2.0 || result.Deltas[1].NewTime != 2.0 {
		t.Errorf("second pair mismatched: old %.1f new %.1f",
			result.Deltas[1].OldTime, result.Deltas[1].NewTime)
	}
	if result.Summary.QueriesAdded != 0 || result.Summary.QueriesRemoved != 0 {
		t.Errorf("duplicates should pair, got %+v", result.Summary)
	}
}

func TestCompare_TimeRegressionIsModifiedNotVerdict(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 100))
	newReport := reportOf(cleanEntry("users", 150))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if d.ChangeType != Modified {
		t.Errorf("expected modified, got %s", d.ChangeType)
	}
	if d.TimeDir != Regressed {
		t.Errorf("expected time regressed, got %s", d.TimeDir)
	}
	if d.TimePct != 50 {
		t.Errorf("expected 50%% change, got %.2f", d.TimePct)
	}
	// The verdict tracks findings, not wall-clock jitter.
	if result.Summary.Verdict != "unchanged" {
		t.Errorf("expected verdict unchanged, got %s", result.Summary.Verdict)
	}
	if result.Summary.TimeDir != Regressed {
		t.Errorf("expected summary time regressed, got %s", result.Summary.TimeDir)
	}
}

func TestCompare_TimeJitterWithinThreshold(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldReport := reportOf(cleanEntry("users", 100))
	newReport := reportOf(cleanEntry("users", 105))

	result := c.Compare(oldReport, newReport)

	requireDeltas(t, result, 1)
	if result.Deltas[0].ChangeType != NoChange {
		t.Errorf("5%% jitter should be no_change, got %s", result.Deltas[0].ChangeType)
	}
	if result.Deltas[0].TimeDir != Unchanged {
		t.Errorf("expected time unchanged, got %s", result.Deltas[0].TimeDir)
	}
}

func TestCompare_ExaminedGrowthIsModified(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	oldEntry := cleanEntry("users", 1.0)
	newEntry := cleanEntry("users", 1.0)
	newEntry.Explain.DocsExamined = 500

	result := c.Compare(reportOf(oldEntry), reportOf(newEntry))

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if d.ChangeType != Modified {
		t.Errorf("expected modified, got %s", d.ChangeType)
	}
	if d.OldExamined != 5 || d.NewExamined != 500 {
		t.Errorf("expected examined 5 -> 500, got %d -> %d", d.OldExamined, d.NewExamined)
	}
}

func TestCompare_NilExplainTreatedAsZero(t *testing.T) {
	c := &Comparator{ThresholdPct: DefaultThresholdPct}
	failed := lint.Entry{
		Query: query.Spec{Collection: "users", Operation: "find", Raw: "{status: 'active'}"},
		Error: "explain failed: connection reset",
	}

	result := c.Compare(reportOf(failed), reportOf(cleanEntry("users", 50)))

	requireDeltas(t, result, 1)
	d := result.Deltas[0]
	if d.OldTime != 0 {
		t.Errorf("expected old time 0, got %.2f", d.OldTime)
	}
	if d.TimePct != 100 {
		t.Errorf("expected 100%% change from zero, got %.2f", d.TimePct)
	}
	if d.TimeDir != Regressed {
		t.Errorf("expected regressed, got %s", d.TimeDir)
	}
}

func TestDirection_ThresholdBoundary(t *testing.T) {
	c := &Comparator{ThresholdPct: 10}

	if got := c.direction(100, 110); got != Regressed {
		t.Errorf("change exactly at threshold should be significant, got %s", got)
	}
	if got := c.direction(100, 109); got != Unchanged {
		t.Errorf("change under threshold should be unchanged, got %s", got)
	}
	if got := c.direction(100, 89); got != Improved {
		t.Errorf("drop past threshold should be improved, got %s", got)
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name     string
		old, new float64
		want     float64
	}{
		{"increase", 100, 150, 50},
		{"decrease", 100, 50, -50},
		{"no change", 100, 100, 0},
		{"from zero", 0, 10, 100},
		{"both zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pctChange(tt.old, tt.new); got != tt.want {
				t.Errorf("pctChange(%.1f, %.1f) = %.2f, want %.2f", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if Improved.String() != "improved" || Regressed.String() != "regressed" || Unchanged.String() != "unchanged" {
		t.Error("unexpected direction strings")
	}
	if Added.String() != "added" || Removed.String() != "removed" ||
		Modified.String() != "modified" || NoChange.String() != "no_change" {
		t.Error("unexpected change type strings")
	}
}
