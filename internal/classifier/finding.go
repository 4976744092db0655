package classifier

// Severity indicates how urgently a finding should be addressed.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

var severityRank = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// Category identifies the kind of performance issue a finding reports.
type Category string

const (
	CategoryEmptyQuery     Category = "empty-query"
	CategoryCollectionScan Category = "collection-scan"
	CategorySlowQuery      Category = "slow-query"
	CategoryLargeScan      Category = "large-scan"
	CategoryUnindexedRegex Category = "unindexed-regex"
	CategoryCompoundIndex  Category = "compound-index-suggestion"
)

// Finding is one performance issue detected for a query. Findings are value
// objects; the query they belong to is carried by the report entry pairing.
type Finding struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Collection string   `json:"collection,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// MaxSeverity returns the highest severity in findings, or the empty string
// when there are none.
func MaxSeverity(findings []Finding) Severity {
	var max Severity
	for _, f := range findings {
		if severityRank[f.Severity] > severityRank[max] {
			max = f.Severity
		}
	}
	return max
}
