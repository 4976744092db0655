package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseArgs turns the raw argument text of a find/update/delete call into
// an ordered filter document plus an optional projection (second argument).
// Diffs carry JavaScript and Python literals; parsing is best effort.
// Identifiers standing in for runtime values are kept as their name, and
// anything structurally unparseable degrades to a single field/value pair
// or an empty filter.
func ParseArgs(raw string) (filter, projection bson.D) {
	args := splitTopLevel(raw)
	if len(args) == 0 {
		return bson.D{}, nil
	}

	filter = parseDocument(args[0])
	if len(args) > 1 {
		if proj, ok := tryParseObject(args[1]); ok {
			projection = proj
		}
	}
	return filter, projection
}

// ParsePipeline extracts the leading $match filter and $sort specification
// from an aggregation pipeline literal. A pipeline with no $match stage
// yields an empty filter.
func ParsePipeline(raw string) (filter, sort bson.D) {
	filter = bson.D{}

	p := &parser{s: strings.TrimSpace(raw)}
	p.skipSpace()
	if !p.consume('[') {
		return filter, nil
	}

	for {
		p.skipSpace()
		if p.done() || p.peek() == ']' {
			break
		}
		stage, ok := p.parseObject()
		if !ok {
			break
		}
		for _, e := range stage {
			doc, isDoc := e.Value.(bson.D)
			if !isDoc {
				continue
			}
			switch e.Key {
			case "$match":
				if len(filter) == 0 {
					filter = doc
				}
			case "$sort":
				if sort == nil {
					sort = doc
				}
			}
		}
		p.skipSpace()
		if !p.consume(',') {
			break
		}
	}

	return filter, sort
}

func parseDocument(raw string) bson.D {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "'\"")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "{}" {
		return bson.D{}
	}

	if strings.HasPrefix(cleaned, "{") {
		if doc, ok := tryParseObject(cleaned); ok {
			return doc
		}
	}

	// Fallback for text the literal parser cannot handle: keep the first
	// field/value pair so the field set is still visible to the rules.
	if idx := strings.Index(cleaned, ":"); idx > 0 {
		field := strings.Trim(strings.TrimSpace(cleaned[:idx]), "{'\" ")
		value := strings.Trim(strings.TrimSpace(cleaned[idx+1:]), "}'\" ")
		if field != "" {
			return bson.D{{Key: field, Value: value}}
		}
	}

	return bson.D{}
}

func tryParseObject(raw string) (bson.D, bool) {
	p := &parser{s: strings.TrimSpace(raw)}
	p.skipSpace()
	doc, ok := p.parseObject()
	if !ok {
		return nil, false
	}
	return doc, true
}

// splitTopLevel splits on commas outside any brace, bracket, paren, or
// string nesting, so "{a: 1}, {b: 1}" yields the two argument literals.
func splitTopLevel(raw string) []string {
	var parts []string
	depth := 0
	start := 0
	var quote byte

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(raw[start:i]))
				start = i + 1
			}
		}
	}

	last := strings.TrimSpace(raw[start:])
	if last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return parts
}

type parser struct {
	s string
	i int
}

func (p *parser) done() bool {
	return p.i >= len(p.s)
}

func (p *parser) peek() byte {
	return p.s[p.i]
}

func (p *parser) consume(c byte) bool {
	if p.done() || p.s[p.i] != c {
		return false
	}
	p.i++
	return true
}

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}

func (p *parser) parseObject() (bson.D, bool) {
	if !p.consume('{') {
		return nil, false
	}

	doc := bson.D{}
	p.skipSpace()
	if p.consume('}') {
		return doc, true
	}

	for {
		p.skipSpace()
		key, ok := p.parseKey()
		if !ok {
			return nil, false
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, false
		}
		p.skipSpace()
		val, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		doc = append(doc, bson.E{Key: key, Value: val})

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return doc, true
		}
		return nil, false
	}
}

func (p *parser) parseArray() (bson.A, bool) {
	if !p.consume('[') {
		return nil, false
	}

	arr := bson.A{}
	p.skipSpace()
	if p.consume(']') {
		return arr, true
	}

	for {
		p.skipSpace()
		val, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		arr = append(arr, val)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return arr, true
		}
		return nil, false
	}
}

func (p *parser) parseKey() (string, bool) {
	if p.done() {
		return "", false
	}
	if p.peek() == '\'' || p.peek() == '"' {
		return p.parseString()
	}

	start := p.i
	for !p.done() && isIdentChar(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return "", false
	}
	return p.s[start:p.i], true
}

func (p *parser) parseValue() (any, bool) {
	if p.done() {
		return nil, false
	}

	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '/':
		return p.parseRegex()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseIdent()
	}
}

func (p *parser) parseString() (string, bool) {
	quote := p.s[p.i]
	p.i++
	var b strings.Builder
	for !p.done() {
		c := p.s[p.i]
		if c == '\\' && p.i+1 < len(p.s) {
			p.i++
			b.WriteByte(p.s[p.i])
			p.i++
			continue
		}
		if c == quote {
			p.i++
			return b.String(), true
		}
		b.WriteByte(c)
		p.i++
	}
	return "", false
}

func (p *parser) parseRegex() (bson.Regex, bool) {
	p.i++ // opening slash
	var pattern strings.Builder
	for !p.done() {
		c := p.s[p.i]
		if c == '\\' && p.i+1 < len(p.s) {
			pattern.WriteByte(c)
			p.i++
			pattern.WriteByte(p.s[p.i])
			p.i++
			continue
		}
		if c == '/' {
			p.i++
			start := p.i
			for !p.done() && p.s[p.i] >= 'a' && p.s[p.i] <= 'z' {
				p.i++
			}
			return bson.Regex{Pattern: pattern.String(), Options: p.s[start:p.i]}, true
		}
		pattern.WriteByte(c)
		p.i++
	}
	return bson.Regex{}, false
}

func (p *parser) parseNumber() (any, bool) {
	start := p.i
	if p.peek() == '-' || p.peek() == '+' {
		p.i++
	}
	isFloat := false
	for !p.done() {
		c := p.s[p.i]
		if c >= '0' && c <= '9' {
			p.i++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.i++
			continue
		}
		break
	}
	text := p.s[start:p.i]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		return f, err == nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	return n, err == nil
}

// parseIdent handles bare words: booleans and nulls in both JavaScript and
// Python spellings, and otherwise identifiers standing in for runtime
// values, kept as their own name so the field set survives extraction.
func (p *parser) parseIdent() (any, bool) {
	start := p.i
	for !p.done() && isIdentChar(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return nil, false
	}

	switch word := p.s[start:p.i]; word {
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	case "null", "None":
		return nil, true
	default:
		return word, true
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
