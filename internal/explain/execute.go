package explain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shekhartata/mongodbExplainLinter/internal/query"
)

// Client wraps a connection to one database of a MongoDB cluster.
type Client struct {
	mc *mongo.Client
	db *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Client, error) {
	mc, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to cluster: %w", err)
	}

	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(ctx)
		return nil, fmt.Errorf("pinging cluster: %w", err)
	}

	return &Client{mc: mc, db: mc.Database(database)}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

func (c *Client) Database() string {
	return c.db.Name()
}

// Explain runs the query with executionStats verbosity and distills the
// response. Update and delete call sites are profiled through their filter
// on the find path; aggregations contribute their $match and $sort stages.
// A nil Result with nil error means the server answered without
// execution statistics.
func (c *Client) Explain(ctx context.Context, spec *query.Spec) (*Result, error) {
	filter := spec.Filter
	if filter == nil {
		filter = bson.D{}
	}

	find := bson.D{
		{Key: "find", Value: spec.Collection},
		{Key: "filter", Value: filter},
	}
	if len(spec.Sort) > 0 {
		find = append(find, bson.E{Key: "sort", Value: spec.Sort})
	}
	if len(spec.Projection) > 0 {
		find = append(find, bson.E{Key: "projection", Value: spec.Projection})
	}

	cmd := bson.D{
		{Key: "explain", Value: find},
		{Key: "verbosity", Value: "executionStats"},
	}

	var doc rawExplain
	if err := c.db.RunCommand(ctx, cmd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("explaining %s on %s: %w", spec.Operation, spec.Collection, err)
	}

	return resultFrom(doc), nil
}

// ListCollections returns the database's collection names sorted, with
// system collections filtered out unless requested.
func (c *Client) ListCollections(ctx context.Context, includeSystem bool) ([]string, error) {
	names, err := c.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	if !includeSystem {
		filtered := names[:0]
		for _, n := range names {
			if !strings.HasPrefix(n, "system.") {
				filtered = append(filtered, n)
			}
		}
		names = filtered
	}

	sort.Strings(names)
	return names, nil
}

// HasCollection reports whether the database contains the named collection.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	names, err := c.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("checking collection %s: %w", name, err)
	}
	return len(names) > 0, nil
}

// CollectionInfo describes one collection for the collections listing.
type CollectionInfo struct {
	Name      string   `json:"name"`
	Indexes   []string `json:"indexes,omitempty"`
	Documents int64    `json:"documents"`
}

func (c *Client) CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error) {
	coll := c.db.Collection(name)

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes on %s: %w", name, err)
	}

	var specs []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &specs); err != nil {
		return nil, fmt.Errorf("reading indexes on %s: %w", name, err)
	}

	info := &CollectionInfo{Name: name}
	for _, s := range specs {
		if s.Name != "_id_" {
			info.Indexes = append(info.Indexes, s.Name)
		}
	}

	count, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("counting documents in %s: %w", name, err)
	}
	info.Documents = count

	return info, nil
}
