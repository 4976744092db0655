// Package comparator diffs two lint reports, typically a base-branch run
// against a PR run, and reports per-query regressions and improvements.
package comparator

import (
	"math"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/lint"
)

type Comparator struct {
	// ThresholdPct is the minimum relative execution-time change, in
	// percent, treated as significant.
	ThresholdPct float64
}

// Compare matches queries between the two reports and computes a delta for
// each. Queries pair up by collection, operation and raw argument text;
// duplicates pair in order. Unmatched old queries report as removed,
// unmatched new ones as added.
func (c *Comparator) Compare(oldReport, newReport *lint.Report) ComparisonResult {
	deltas := make([]QueryDelta, 0, len(oldReport.Entries)+len(newReport.Entries))

	used := make([]bool, len(newReport.Entries))
	byKey := make(map[string][]int)
	for i := range newReport.Entries {
		k := entryKey(&newReport.Entries[i])
		byKey[k] = append(byKey[k], i)
	}

	for i := range oldReport.Entries {
		oldEntry := &oldReport.Entries[i]
		match := -1
		for _, j := range byKey[entryKey(oldEntry)] {
			if !used[j] {
				used[j] = true
				match = j
				break
			}
		}
		if match < 0 {
			deltas = append(deltas, removedQuery(oldEntry))
			continue
		}
		deltas = append(deltas, c.diffEntries(oldEntry, &newReport.Entries[match]))
	}

	for j := range newReport.Entries {
		if !used[j] {
			deltas = append(deltas, addedQuery(&newReport.Entries[j]))
		}
	}

	return ComparisonResult{
		Deltas:  deltas,
		Summary: c.summarize(oldReport, newReport, deltas),
	}
}

func (c *Comparator) diffEntries(oldEntry, newEntry *lint.Entry) QueryDelta {
	d := QueryDelta{
		Collection:  newEntry.Query.Collection,
		Operation:   newEntry.Query.Operation,
		Raw:         newEntry.Query.Raw,
		ChangeType:  Modified,
		OldSeverity: classifier.MaxSeverity(oldEntry.Findings),
		NewSeverity: classifier.MaxSeverity(newEntry.Findings),
	}

	d.Introduced, d.Resolved = categoryDiff(oldEntry.Findings, newEntry.Findings)

	if oldEntry.Explain != nil {
		d.OldTime = oldEntry.Explain.ExecutionTimeMillis
		d.OldExamined = oldEntry.Explain.DocsExamined
	}
	if newEntry.Explain != nil {
		d.NewTime = newEntry.Explain.ExecutionTimeMillis
		d.NewExamined = newEntry.Explain.DocsExamined
	}
	d.TimeDelta = d.NewTime - d.OldTime
	d.TimePct = pctChange(d.OldTime, d.NewTime)
	d.TimeDir = c.direction(d.OldTime, d.NewTime)

	if len(d.Introduced) == 0 && len(d.Resolved) == 0 &&
		d.TimeDir == Unchanged && d.OldExamined == d.NewExamined {
		d.ChangeType = NoChange
	}
	return d
}

func addedQuery(e *lint.Entry) QueryDelta {
	d := QueryDelta{
		Collection:  e.Query.Collection,
		Operation:   e.Query.Operation,
		Raw:         e.Query.Raw,
		ChangeType:  Added,
		NewSeverity: classifier.MaxSeverity(e.Findings),
		Introduced:  categories(e.Findings),
	}
	if e.Explain != nil {
		d.NewTime = e.Explain.ExecutionTimeMillis
		d.NewExamined = e.Explain.DocsExamined
	}
	d.TimeDelta = d.NewTime
	d.TimePct = pctChange(0, d.NewTime)
	return d
}

func removedQuery(e *lint.Entry) QueryDelta {
	d := QueryDelta{
		Collection:  e.Query.Collection,
		Operation:   e.Query.Operation,
		Raw:         e.Query.Raw,
		ChangeType:  Removed,
		OldSeverity: classifier.MaxSeverity(e.Findings),
		Resolved:    categories(e.Findings),
	}
	if e.Explain != nil {
		d.OldTime = e.Explain.ExecutionTimeMillis
		d.OldExamined = e.Explain.DocsExamined
	}
	d.TimeDelta = -d.OldTime
	d.TimePct = pctChange(d.OldTime, 0)
	return d
}

func (c *Comparator) summarize(oldReport, newReport *lint.Report, deltas []QueryDelta) Summary {
	s := Summary{
		OldQueries: oldReport.TotalQueries,
		NewQueries: newReport.TotalQueries,
		OldIssues:  oldReport.IssuesFound,
		NewIssues:  newReport.IssuesFound,
	}
	s.IssuesDelta = s.NewIssues - s.OldIssues

	for _, d := range deltas {
		switch d.ChangeType {
		case Added:
			s.QueriesAdded++
		case Removed:
			s.QueriesRemoved++
		case Modified:
			s.QueriesModified++
		}
		s.Introduced += len(d.Introduced)
		s.Resolved += len(d.Resolved)
		if d.ChangeType != Removed &&
			d.NewSeverity == classifier.SeverityHigh && d.OldSeverity != classifier.SeverityHigh {
			s.NewHigh++
		}
	}

	s.OldTotalTime = totalTime(oldReport)
	s.NewTotalTime = totalTime(newReport)
	s.TimeDelta = s.NewTotalTime - s.OldTotalTime
	s.TimePct = pctChange(s.OldTotalTime, s.NewTotalTime)
	s.TimeDir = c.direction(s.OldTotalTime, s.NewTotalTime)

	switch {
	case s.NewHigh > 0 || s.IssuesDelta > 0:
		s.Verdict = Regressed.String()
	case s.IssuesDelta < 0:
		s.Verdict = Improved.String()
	default:
		s.Verdict = Unchanged.String()
	}
	return s
}

func entryKey(e *lint.Entry) string {
	return e.Query.Collection + "\x00" + e.Query.Operation + "\x00" + e.Query.Raw
}

// categoryDiff returns the finding categories present only in the new set
// and only in the old set, each in first-seen order.
func categoryDiff(oldFindings, newFindings []classifier.Finding) (introduced, resolved []string) {
	oldSet := categorySet(oldFindings)
	newSet := categorySet(newFindings)

	for _, cat := range categories(newFindings) {
		if !oldSet[cat] {
			introduced = append(introduced, cat)
		}
	}
	for _, cat := range categories(oldFindings) {
		if !newSet[cat] {
			resolved = append(resolved, cat)
		}
	}
	return introduced, resolved
}

func categories(findings []classifier.Finding) []string {
	seen := make(map[string]bool, len(findings))
	var out []string
	for _, f := range findings {
		cat := string(f.Category)
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

func categorySet(findings []classifier.Finding) map[string]bool {
	set := make(map[string]bool, len(findings))
	for _, f := range findings {
		set[string(f.Category)] = true
	}
	return set
}

func totalTime(r *lint.Report) float64 {
	var total float64
	for i := range r.Entries {
		if r.Entries[i].Explain != nil {
			total += r.Entries[i].Explain.ExecutionTimeMillis
		}
	}
	return total
}

// direction classifies a time change. Lower is always better.
func (c *Comparator) direction(oldVal, newVal float64) Direction {
	if math.Abs(pctChange(oldVal, newVal)) < c.ThresholdPct {
		return Unchanged
	}
	if newVal < oldVal {
		return Improved
	}
	return Regressed
}

func pctChange(oldVal, newVal float64) float64 {
	if oldVal == 0 {
		if newVal == 0 {
			return 0
		}
		return 100
	}
	return (newVal - oldVal) / oldVal * 100
}
