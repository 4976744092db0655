package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

// Rule inspects one query and its execution statistics. Rules are
// independent and cumulative: each one that matches produces exactly one
// finding, and no rule suppresses another. explainRules run in severity
// order, which is also their report order.
type Rule func(cfg Config, q *query.Spec, ex *explain.Result) []Finding

var explainRules = []Rule{
	checkCollectionScan,
	checkSlowQuery,
	checkLargeScan,
	checkUnindexedRegex,
	checkCompoundIndexGap,
}

// checkEmptyFilter fires on a filter with zero constraints. It needs no
// explain result and is evaluated separately, before execution statistics
// are consulted.
func checkEmptyFilter(q *query.Spec) *Finding {
	if len(q.Filter) > 0 {
		return nil
	}
	return &Finding{
		Severity:   SeverityHigh,
		Category:   CategoryEmptyQuery,
		Collection: q.Collection,
		Message:    "query has no filter; will scan entire collection",
		Suggestion: "Add filter criteria so the query can use an index",
	}
}

func checkCollectionScan(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	if !ex.CollectionScan {
		return nil
	}

	suggestion := fmt.Sprintf("Create an index covering the filter fields on %s", q.Collection)
	if fields := q.FilterFields(); len(fields) > 0 {
		suggestion = fmt.Sprintf("Create an index, e.g. db.%s.createIndex(%s)", q.Collection, keyPattern(fields))
	}

	return []Finding{{
		Severity:   SeverityHigh,
		Category:   CategoryCollectionScan,
		Collection: q.Collection,
		Message:    fmt.Sprintf("full collection scan on %s; no index was used", q.Collection),
		Suggestion: suggestion,
	}}
}

func checkSlowQuery(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	if ex.ExecutionTimeMillis < cfg.SlowQueryMillis {
		return nil
	}
	return []Finding{{
		Severity:   SeverityMedium,
		Category:   CategorySlowQuery,
		Collection: q.Collection,
		Message: fmt.Sprintf("execution took %sms (threshold %sms)",
			formatMillis(ex.ExecutionTimeMillis), formatMillis(cfg.SlowQueryMillis)),
		Suggestion: "Check index coverage for the filter and sort fields",
	}}
}

func checkLargeScan(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	if ex.DocsExamined <= cfg.LargeScanDocs {
		return nil
	}

	msg := fmt.Sprintf("examined %d documents", ex.DocsExamined)
	if float64(ex.DocsExamined) > cfg.SelectivityRatio*float64(ex.DocsReturned) {
		msg = fmt.Sprintf("examined %d documents to return %d; the access path has poor selectivity",
			ex.DocsExamined, ex.DocsReturned)
	}

	return []Finding{{
		Severity:   SeverityMedium,
		Category:   CategoryLargeScan,
		Collection: q.Collection,
		Message:    msg,
		Suggestion: "Narrow the filter or add a more selective index",
	}}
}

func checkUnindexedRegex(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	var uncovered []string
	for _, field := range q.RegexFields() {
		if !ex.IndexCovers(field) {
			uncovered = append(uncovered, field)
		}
	}
	if len(uncovered) == 0 {
		return nil
	}

	return []Finding{{
		Severity:   SeverityMedium,
		Category:   CategoryUnindexedRegex,
		Collection: q.Collection,
		Message: fmt.Sprintf("regex filter on %s is not covered by an index; regex scans bypass index prefix optimization",
			strings.Join(uncovered, ", ")),
		Suggestion: "Anchor the pattern and index the field, or use a text index for substring search",
	}}
}

// checkCompoundIndexGap fires when a multi-field filter ran against an
// index whose key prefix covers at most one of the constrained fields.
// Coverage is prefix-match against the index key order: a compound index
// (a, b) queried on {b} covers nothing.
func checkCompoundIndexGap(cfg Config, q *query.Spec, ex *explain.Result) []Finding {
	fields := q.FilterFields()
	if len(fields) < 2 {
		return nil
	}
	if ex.IndexPrefixCoverage(fields) > 1 {
		return nil
	}

	return []Finding{{
		Severity:   SeverityLow,
		Category:   CategoryCompoundIndex,
		Collection: q.Collection,
		Message: fmt.Sprintf("query constrains %d fields but the winning plan used at most one in its index key",
			len(fields)),
		Suggestion: fmt.Sprintf("Consider a compound index on (%s)", strings.Join(fields, ", ")),
	}}
}

// keyPattern renders filter fields as a createIndex key document.
func keyPattern(fields []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
		b.WriteString(": 1")
	}
	b.WriteByte('}')
	return b.String()
}

func formatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
