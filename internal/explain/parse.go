package explain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const stageCollScan = "COLLSCAN"

type rawExplain struct {
	QueryPlanner   *rawPlanner `bson:"queryPlanner"`
	ExecutionStats *rawStats   `bson:"executionStats"`
}

type rawPlanner struct {
	Namespace   string    `bson:"namespace"`
	WinningPlan *rawStage `bson:"winningPlan"`
}

type rawStage struct {
	Stage       string     `bson:"stage"`
	IndexName   string     `bson:"indexName"`
	KeyPattern  bson.D     `bson:"keyPattern"`
	InputStage  *rawStage  `bson:"inputStage"`
	InputStages []rawStage `bson:"inputStages"`
}

type rawStats struct {
	ExecutionTimeMillis float64 `bson:"executionTimeMillis"`
	TotalDocsExamined   int64   `bson:"totalDocsExamined"`
	NReturned           int64   `bson:"nReturned"`
}

// Parse reads an explain document in extended JSON form. Used for fixtures
// and for plans captured outside a live run.
func Parse(data []byte) (*Result, error) {
	var doc rawExplain
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, fmt.Errorf("invalid explain document: %w", err)
	}
	return resultFrom(doc), nil
}

// resultFrom distills the raw server response. A response without
// executionStats (wrong verbosity, truncated document) yields nil: the
// caller treats that as statistics being unavailable.
func resultFrom(doc rawExplain) *Result {
	if doc.ExecutionStats == nil {
		return nil
	}

	r := &Result{
		ExecutionTimeMillis: doc.ExecutionStats.ExecutionTimeMillis,
		DocsExamined:        doc.ExecutionStats.TotalDocsExamined,
		DocsReturned:        doc.ExecutionStats.NReturned,
	}

	if doc.QueryPlanner != nil {
		r.Namespace = doc.QueryPlanner.Namespace
		walkPlan(doc.QueryPlanner.WinningPlan, r)
	}

	r.CollectionScan = r.IndexName == "" && hasStage(r.Stages, stageCollScan)

	return r
}

// walkPlan records the stage chain top-down and the first index the plan
// touches. The key pattern order is the index key order.
func walkPlan(stage *rawStage, r *Result) {
	if stage == nil {
		return
	}

	r.Stages = append(r.Stages, stage.Stage)

	if stage.IndexName != "" && r.IndexName == "" {
		r.IndexName = stage.IndexName
		for _, e := range stage.KeyPattern {
			r.IndexKeys = append(r.IndexKeys, e.Key)
		}
	}

	walkPlan(stage.InputStage, r)
	for i := range stage.InputStages {
		walkPlan(&stage.InputStages[i], r)
	}
}

func hasStage(stages []string, want string) bool {
	for _, s := range stages {
		if s == want {
			return true
		}
	}
	return false
}
