package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Location points at the diff line a query was extracted from. File is the
// new-side path from the nearest "+++ b/..." header, empty when the diff
// carries no file headers.
type Location struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Spec is one query candidate extracted from a diff. Filter preserves the
// field order of the source text; Raw keeps the unparsed argument for
// display. A Spec is never mutated after extraction.
type Spec struct {
	Collection string   `json:"collection"`
	Operation  string   `json:"operation"`
	Raw        string   `json:"raw"`
	Location   Location `json:"location"`

	Filter     bson.D `json:"-"`
	Sort       bson.D `json:"-"`
	Projection bson.D `json:"-"`
}

// CollectionUnknown marks a Spec whose target collection could not be
// resolved from the surrounding diff context.
const CollectionUnknown = "unknown"

func (s *Spec) CollectionKnown() bool {
	return s.Collection != "" && s.Collection != CollectionUnknown
}

// FilterFields returns the constrained field names in filter order.
func (s *Spec) FilterFields() []string {
	if len(s.Filter) == 0 {
		return nil
	}
	fields := make([]string, 0, len(s.Filter))
	for _, e := range s.Filter {
		fields = append(fields, e.Key)
	}
	return fields
}

// HasRegexOn reports whether the filter constrains field with a regular
// expression, either a regex literal value or a $regex operator document.
func (s *Spec) HasRegexOn(field string) bool {
	for _, e := range s.Filter {
		if e.Key != field {
			continue
		}
		if isRegexValue(e.Value) {
			return true
		}
	}
	return false
}

// RegexFields returns the fields constrained by a regular expression, in
// filter order.
func (s *Spec) RegexFields() []string {
	var fields []string
	for _, e := range s.Filter {
		if isRegexValue(e.Value) {
			fields = append(fields, e.Key)
		}
	}
	return fields
}

func isRegexValue(v any) bool {
	switch val := v.(type) {
	case bson.Regex:
		return true
	case bson.D:
		for _, e := range val {
			if e.Key == "$regex" {
				return true
			}
		}
	}
	return false
}
