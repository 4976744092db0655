package comparator

import (
	"encoding/json"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
)

type Direction int

const (
	Unchanged Direction = 0
	Improved  Direction = 1
	Regressed Direction = 2
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type ChangeType int

const (
	NoChange ChangeType = 0
	Modified ChangeType = 1
	Added    ChangeType = 2
	Removed  ChangeType = 3
)

func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "no_change"
	}
}

func (c ChangeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// DefaultThresholdPct is the relative execution-time change below which a
// matched query counts as unchanged. Wall-clock explain timings jitter;
// small swings are noise, not regressions.
const DefaultThresholdPct = 10.0

// QueryDelta describes how one query moved between two lint runs. Queries
// are matched by collection, operation and raw argument text.
type QueryDelta struct {
	Collection string     `json:"collection"`
	Operation  string     `json:"operation"`
	Raw        string     `json:"raw"`
	ChangeType ChangeType `json:"change_type"`

	// Finding categories that appear only in the new run, and categories
	// the new run no longer reports.
	Introduced []string `json:"introduced,omitempty"`
	Resolved   []string `json:"resolved,omitempty"`

	OldSeverity classifier.Severity `json:"old_severity,omitempty"`
	NewSeverity classifier.Severity `json:"new_severity,omitempty"`

	OldTime   float64   `json:"old_time_ms"`
	NewTime   float64   `json:"new_time_ms"`
	TimeDelta float64   `json:"time_delta_ms"`
	TimePct   float64   `json:"time_pct"`
	TimeDir   Direction `json:"time_direction"`

	OldExamined int64 `json:"old_examined"`
	NewExamined int64 `json:"new_examined"`
}

type ComparisonResult struct {
	Deltas  []QueryDelta `json:"queries"`
	Summary Summary      `json:"summary"`
}

type Summary struct {
	OldQueries int `json:"old_queries"`
	NewQueries int `json:"new_queries"`

	QueriesAdded    int `json:"queries_added"`
	QueriesRemoved  int `json:"queries_removed"`
	QueriesModified int `json:"queries_modified"`

	OldIssues   int `json:"old_issues"`
	NewIssues   int `json:"new_issues"`
	IssuesDelta int `json:"issues_delta"`

	Introduced int `json:"introduced"`
	Resolved   int `json:"resolved"`

	// Queries that newly reach HIGH severity in this run.
	NewHigh int `json:"new_high"`

	OldTotalTime float64   `json:"old_total_time_ms"`
	NewTotalTime float64   `json:"new_total_time_ms"`
	TimeDelta    float64   `json:"time_delta_ms"`
	TimePct      float64   `json:"time_pct"`
	TimeDir      Direction `json:"time_direction"`

	Verdict string `json:"verdict"`
}
