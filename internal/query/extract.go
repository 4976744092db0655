package query

import (
	"regexp"
	"strings"
)

// One pattern per operation the linter understands. The argument capture
// stops at the first closing paren, which is as far as a regex can safely
// read a call site out of a diff hunk.
var opPatterns = []struct {
	op string
	re *regexp.Regexp
}{
	{"find", regexp.MustCompile(`\.find\(([^)]+)\)`)},
	{"findOne", regexp.MustCompile(`\.findOne\(([^)]+)\)`)},
	{"aggregate", regexp.MustCompile(`\.aggregate\(([^)]+)\)`)},
	{"updateOne", regexp.MustCompile(`\.updateOne\(([^)]+)\)`)},
	{"updateMany", regexp.MustCompile(`\.updateMany\(([^)]+)\)`)},
	{"deleteOne", regexp.MustCompile(`\.deleteOne\(([^)]+)\)`)},
	{"deleteMany", regexp.MustCompile(`\.deleteMany\(([^)]+)\)`)},
}

var (
	collectionRe = regexp.MustCompile(`(?:db\.)?(\w+)\.(?:find|findOne|aggregate|update|delete)`)
	assignRe     = regexp.MustCompile(`(\w+)\s*=\s*db\.(\w+)`)
)

// assignLookback is how many preceding lines are searched for a
// "var = db.collection" assignment when the call site itself does not name
// the collection.
const assignLookback = 3

// ExtractFromDiff scans diff text for MongoDB call sites and returns one
// Spec per match, in source order. Line numbers are 1-based positions
// within the diff; the file is taken from the most recent "+++" header.
func ExtractFromDiff(diff string) []Spec {
	var specs []Spec
	lines := strings.Split(diff, "\n")
	file := ""

	for i, line := range lines {
		if name, ok := strings.CutPrefix(line, "+++ "); ok {
			file = strings.TrimPrefix(name, "b/")
			continue
		}

		for _, pat := range opPatterns {
			for _, m := range pat.re.FindAllStringSubmatch(line, -1) {
				spec := Spec{
					Collection: extractCollectionName(line, i, lines),
					Operation:  pat.op,
					Raw:        m[1],
					Location:   Location{File: file, Line: i + 1},
				}

				if pat.op == "aggregate" {
					spec.Filter, spec.Sort = ParsePipeline(m[1])
				} else {
					// Second argument is a projection only on the find
					// path; for updates and deletes it is the update
					// document and plays no part in profiling.
					filter, proj := ParseArgs(m[1])
					spec.Filter = filter
					if pat.op == "find" || pat.op == "findOne" {
						spec.Projection = proj
					}
				}

				specs = append(specs, spec)
			}
		}
	}

	return specs
}

// extractCollectionName resolves the collection a call site targets: the
// receiver on the line itself, or a db.<name> assignment within the
// preceding lines, or unknown.
func extractCollectionName(line string, lineIdx int, lines []string) string {
	if m := collectionRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}

	start := lineIdx - assignLookback
	if start < 0 {
		start = 0
	}
	for i := start; i < lineIdx; i++ {
		if m := assignRe.FindStringSubmatch(lines[i]); m != nil {
			return m[2]
		}
	}

	return CollectionUnknown
}
