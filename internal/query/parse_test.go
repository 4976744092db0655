package query

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseArgs_SingleQuotedLiteral(t *testing.T) {
	filter, proj := ParseArgs(`{'status': 'active'}`)
	if len(filter) != 1 || filter[0].Key != "status" || filter[0].Value != "active" {
		t.Errorf("filter = %v", filter)
	}
	if proj != nil {
		t.Errorf("unexpected projection: %v", proj)
	}
}

func TestParseArgs_DoubleQuotedLiteral(t *testing.T) {
	filter, _ := ParseArgs(`{"email": "a@b.c"}`)
	if len(filter) != 1 || filter[0].Key != "email" || filter[0].Value != "a@b.c" {
		t.Errorf("filter = %v", filter)
	}
}

func TestParseArgs_UnquotedKeys(t *testing.T) {
	filter, _ := ParseArgs(`{status: 'active', role: 'user'}`)
	if len(filter) != 2 {
		t.Fatalf("filter = %v", filter)
	}
	if filter[0].Key != "status" || filter[1].Key != "role" {
		t.Errorf("keys = %s, %s", filter[0].Key, filter[1].Key)
	}
}

func TestParseArgs_NestedOperator(t *testing.T) {
	filter, _ := ParseArgs(`{'category': 'electronics', 'price': {'$lt': 1000}}`)
	if len(filter) != 2 {
		t.Fatalf("filter = %v", filter)
	}

	price, ok := filter[1].Value.(bson.D)
	if !ok {
		t.Fatalf("price value = %T, want bson.D", filter[1].Value)
	}
	if price[0].Key != "$lt" || price[0].Value != int64(1000) {
		t.Errorf("price operator = %v", price)
	}
}

func TestParseArgs_Projection(t *testing.T) {
	filter, proj := ParseArgs(`{status: 'active'}, {name: 1, _id: 0}`)
	if len(filter) != 1 {
		t.Fatalf("filter = %v", filter)
	}
	if len(proj) != 2 || proj[0].Key != "name" || proj[1].Key != "_id" {
		t.Errorf("projection = %v", proj)
	}
}

func TestParseArgs_EmptyFilter(t *testing.T) {
	for _, raw := range []string{`{}`, `''`, `""`, `  {}  `} {
		filter, _ := ParseArgs(raw)
		if len(filter) != 0 {
			t.Errorf("ParseArgs(%q) = %v, want empty filter", raw, filter)
		}
	}
}

func TestParseArgs_IdentifierValue(t *testing.T) {
	filter, _ := ParseArgs(`{'user_id': user_id}`)
	if len(filter) != 1 {
		t.Fatalf("filter = %v", filter)
	}
	// Runtime values survive as their identifier name so the constrained
	// field set is still visible to the rules.
	if filter[0].Value != "user_id" {
		t.Errorf("value = %v, want identifier name", filter[0].Value)
	}
}

func TestParseArgs_RegexLiteral(t *testing.T) {
	filter, _ := ParseArgs(`{email: /^john/i}`)
	if len(filter) != 1 {
		t.Fatalf("filter = %v", filter)
	}

	re, ok := filter[0].Value.(bson.Regex)
	if !ok {
		t.Fatalf("value = %T, want bson.Regex", filter[0].Value)
	}
	if re.Pattern != "^john" || re.Options != "i" {
		t.Errorf("regex = %v", re)
	}

	spec := &Spec{Filter: filter}
	if !spec.HasRegexOn("email") {
		t.Error("HasRegexOn(email) = false")
	}
}

func TestParseArgs_RegexOperator(t *testing.T) {
	filter, _ := ParseArgs(`{'email': {'$regex': '^john', '$options': 'i'}}`)
	spec := &Spec{Filter: filter}
	if !spec.HasRegexOn("email") {
		t.Error("HasRegexOn(email) = false for $regex operator form")
	}
	if fields := spec.RegexFields(); len(fields) != 1 || fields[0] != "email" {
		t.Errorf("RegexFields = %v", fields)
	}
}

func TestParseArgs_BoolsAndNulls(t *testing.T) {
	filter, _ := ParseArgs(`{active: true, archived: False, note: None}`)
	if len(filter) != 3 {
		t.Fatalf("filter = %v", filter)
	}
	if filter[0].Value != true {
		t.Errorf("active = %v", filter[0].Value)
	}
	if filter[1].Value != false {
		t.Errorf("archived = %v", filter[1].Value)
	}
	if filter[2].Value != nil {
		t.Errorf("note = %v", filter[2].Value)
	}
}

func TestParseArgs_Numbers(t *testing.T) {
	filter, _ := ParseArgs(`{age: 30, score: -4.5}`)
	if filter[0].Value != int64(30) {
		t.Errorf("age = %v (%T)", filter[0].Value, filter[0].Value)
	}
	if filter[1].Value != -4.5 {
		t.Errorf("score = %v (%T)", filter[1].Value, filter[1].Value)
	}
}

func TestParseArgs_ArrayValue(t *testing.T) {
	filter, _ := ParseArgs(`{status: {'$in': ['active', 'pending']}}`)
	status, ok := filter[0].Value.(bson.D)
	if !ok {
		t.Fatalf("status = %T", filter[0].Value)
	}
	arr, ok := status[0].Value.(bson.A)
	if !ok || len(arr) != 2 {
		t.Fatalf("$in = %v", status[0].Value)
	}
	if arr[0] != "active" || arr[1] != "pending" {
		t.Errorf("$in values = %v", arr)
	}
}

func TestParseArgs_FallbackPair(t *testing.T) {
	// Text the literal parser cannot handle keeps its first field visible.
	filter, _ := ParseArgs(`status: 'active'`)
	if len(filter) != 1 || filter[0].Key != "status" {
		t.Errorf("filter = %v, want the field to survive", filter)
	}
}

func TestParsePipeline(t *testing.T) {
	filter, sort := ParsePipeline(`[{'$match': {'user_id': 'u1'}}, {'$sort': {'created_at': -1}}]`)

	if len(filter) != 1 || filter[0].Key != "user_id" || filter[0].Value != "u1" {
		t.Errorf("filter = %v", filter)
	}
	if len(sort) != 1 || sort[0].Key != "created_at" || sort[0].Value != int64(-1) {
		t.Errorf("sort = %v", sort)
	}
}

func TestParsePipeline_NoMatchStage(t *testing.T) {
	filter, sort := ParsePipeline(`[{'$group': {'_id': '$status'}}]`)
	if len(filter) != 0 {
		t.Errorf("filter = %v, want empty", filter)
	}
	if sort != nil {
		t.Errorf("sort = %v, want nil", sort)
	}
}

func TestParsePipeline_FirstMatchWins(t *testing.T) {
	filter, _ := ParsePipeline(`[{'$match': {'a': 1}}, {'$match': {'b': 2}}]`)
	if len(filter) != 1 || filter[0].Key != "a" {
		t.Errorf("filter = %v, want the first $match", filter)
	}
}

func TestParsePipeline_NotAnArray(t *testing.T) {
	filter, sort := ParsePipeline(`pipeline_var`)
	if len(filter) != 0 || sort != nil {
		t.Errorf("got %v / %v, want empty", filter, sort)
	}
}
