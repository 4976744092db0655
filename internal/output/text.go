package output

import (
	"fmt"
	"io"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/comparator"
	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/lint"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func RenderReportText(w io.Writer, r *lint.Report) error {
	tw := &textWriter{w: w}

	if r.PRNumber != "" {
		tw.printf("%s%sLint Report for PR #%s%s\n\n", colorBold, colorCyan, r.PRNumber, colorReset)
	} else {
		tw.printf("%s%sLint Report%s\n\n", colorBold, colorCyan, colorReset)
	}
	tw.printf("  Queries Found:    %d\n", r.TotalQueries)
	tw.printf("  Queries Analyzed: %d\n", r.QueriesAnalyzed)
	tw.printf("  Issues Found:     %d\n", r.IssuesFound)
	tw.printf("\n")

	if r.TotalQueries == 0 {
		tw.printf("%sNo queries detected in the diff.%s\n", colorDim, colorReset)
		return tw.err
	}

	for i := range r.Entries {
		tw.renderEntry(&r.Entries[i])
	}

	if r.Success {
		tw.printf("%s%sNo issues found.%s\n", colorBold, colorGreen, colorReset)
	}

	return tw.err
}

func (tw *textWriter) renderEntry(e *lint.Entry) {
	tw.printf("%s%s%s %s(%s)%s\n",
		colorBold, queryLabel(e.Query.Collection, e.Query.Operation, e.Query.Raw), colorReset,
		colorDim, e.Query.Location.String(), colorReset)

	if e.Error != "" {
		tw.printf("  %sskipped: %s%s\n", colorYellow, e.Error, colorReset)
	}
	if e.Explain != nil {
		tw.printf("  %s%s%s\n", colorDim, statsLine(e.Explain), colorReset)
	}
	if len(e.Findings) == 0 && e.Error == "" {
		tw.printf("  %sOK%s\n", colorGreen, colorReset)
	}

	for _, f := range e.Findings {
		label, color := severityFormat(f.Severity)
		tw.printf("  %s%-8s%s %s\n", color, label, colorReset, f.Message)
		if f.Suggestion != "" {
			tw.printf("  %s→ %s%s\n", colorDim, f.Suggestion, colorReset)
		}
	}

	tw.printf("\n")
}

func statsLine(ex *explain.Result) string {
	access := "COLLSCAN"
	if ex.IndexName != "" {
		access = "index " + ex.IndexName
	} else if !ex.CollectionScan {
		access = "no index"
	}
	return fmt.Sprintf("time=%.2fms examined=%d returned=%d %s",
		ex.ExecutionTimeMillis, ex.DocsExamined, ex.DocsReturned, access)
}

func severityFormat(s classifier.Severity) (string, string) {
	switch s {
	case classifier.SeverityHigh:
		return "HIGH", colorRed
	case classifier.SeverityMedium:
		return "MEDIUM", colorYellow
	default:
		return "LOW", colorCyan
	}
}

func RenderComparisonText(w io.Writer, result comparator.ComparisonResult) error {
	tw := &textWriter{w: w}
	s := result.Summary

	tw.printf("%s%sComparison Summary%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Queries:        %d → %d\n", s.OldQueries, s.NewQueries)
	tw.printf("  Issues:         %d → %d (%+d)\n", s.OldIssues, s.NewIssues, s.IssuesDelta)
	if s.OldTotalTime > 0 || s.NewTotalTime > 0 {
		tw.printf("  Execution Time: %s\n", formatDelta(s.OldTotalTime, s.NewTotalTime, s.TimePct, s.TimeDir, "%.2f ms"))
	}
	tw.printf("\n")

	changes := s.QueriesAdded + s.QueriesRemoved + s.QueriesModified
	if changes == 0 {
		tw.printf("%s%sReports are identical.%s\n", colorBold, colorGreen, colorReset)
		return tw.err
	}

	tw.printf("  Changes: %d modified, %d added, %d removed\n\n",
		s.QueriesModified, s.QueriesAdded, s.QueriesRemoved)

	tw.printf("%s%sQuery Details%s\n\n", colorBold, colorCyan, colorReset)

	for _, delta := range result.Deltas {
		tw.renderQueryDelta(delta)
	}

	tw.renderVerdict(s)

	return tw.err
}

func (tw *textWriter) renderQueryDelta(d comparator.QueryDelta) {
	label := queryLabel(d.Collection, d.Operation, d.Raw)

	switch d.ChangeType {
	case comparator.NoChange:
		return
	case comparator.Added:
		tw.printf("  %s+ %s%s", colorGreen, label, colorReset)
		if d.NewTime > 0 {
			tw.printf(" (time=%.2fms)", d.NewTime)
		}
		tw.printf("\n")
	case comparator.Removed:
		tw.printf("  %s- %s%s\n", colorRed, label, colorReset)
	case comparator.Modified:
		tw.printf("  %s~ %s%s\n", colorYellow, label, colorReset)
		if d.TimeDir != comparator.Unchanged {
			tw.renderMetricLine("time", d.OldTime, d.NewTime, d.TimePct, d.TimeDir, "%.2f ms")
		}
		if d.OldExamined != d.NewExamined {
			tw.printf("    examined: %d → %d\n", d.OldExamined, d.NewExamined)
		}
	}

	for _, cat := range d.Introduced {
		tw.printf("    %snew: %s%s\n", colorRed, cat, colorReset)
	}
	for _, cat := range d.Resolved {
		tw.printf("    %sresolved: %s%s\n", colorGreen, cat, colorReset)
	}
}

func (tw *textWriter) renderMetricLine(label string, oldVal, newVal, pct float64, dir comparator.Direction, fmtStr string) {
	color := dirColor(dir)
	arrow := dirArrow(dir)
	oldStr := fmt.Sprintf(fmtStr, oldVal)
	newStr := fmt.Sprintf(fmtStr, newVal)
	tw.printf("    %s: %s → %s%s %s (%+.1f%%)%s\n", label, oldStr, color, newStr, arrow, pct, colorReset)
}

func (tw *textWriter) renderVerdict(s comparator.Summary) {
	var color string
	switch s.Verdict {
	case comparator.Improved.String():
		color = colorGreen
	case comparator.Regressed.String():
		color = colorRed
	}
	if color != "" {
		tw.printf("\n%sVerdict: %s%s\n", color, s.Verdict, colorReset)
	} else {
		tw.printf("\nVerdict: %s\n", s.Verdict)
	}
}

func queryLabel(collection, operation, raw string) string {
	return fmt.Sprintf("db.%s.%s(%s)", collection, operation, raw)
}

func formatDelta(oldVal, newVal, pct float64, dir comparator.Direction, fmtStr string) string {
	color := dirColor(dir)
	arrow := dirArrow(dir)
	oldStr := fmt.Sprintf(fmtStr, oldVal)
	newStr := fmt.Sprintf(fmtStr, newVal)
	return fmt.Sprintf("%s → %s%s %s (%+.1f%%)%s", oldStr, color, newStr, arrow, pct, colorReset)
}

func dirColor(d comparator.Direction) string {
	switch d {
	case comparator.Improved:
		return colorGreen
	case comparator.Regressed:
		return colorRed
	default:
		return ""
	}
}

func dirArrow(d comparator.Direction) string {
	switch d {
	case comparator.Improved:
		return "↓"
	case comparator.Regressed:
		return "↑"
	default:
		return ""
	}
}
