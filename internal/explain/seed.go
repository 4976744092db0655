package explain

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// sampleCollection is one seedable collection: a handful of documents plus
// the index set the lint rules are demonstrated against.
type sampleCollection struct {
	name    string
	docs    []bson.D
	indexes []mongo.IndexModel
}

func key(fields ...string) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}

func sampleCollections() []sampleCollection {
	return []sampleCollection{
		{
			name: "users",
			docs: []bson.D{
				{{Key: "username", Value: "john_doe"}, {Key: "email", Value: "john@company.com"}, {Key: "status", Value: "active"}, {Key: "role", Value: "user"}, {Key: "department", Value: "engineering"}, {Key: "created_at", Value: "2024-01-01"}},
				{{Key: "username", Value: "jane_smith"}, {Key: "email", Value: "jane@company.com"}, {Key: "status", Value: "active"}, {Key: "role", Value: "admin"}, {Key: "department", Value: "management"}, {Key: "created_at", Value: "2024-01-02"}},
				{{Key: "username", Value: "bob_wilson"}, {Key: "email", Value: "bob@company.com"}, {Key: "status", Value: "inactive"}, {Key: "role", Value: "user"}, {Key: "department", Value: "sales"}, {Key: "created_at", Value: "2024-01-03"}},
				{{Key: "username", Value: "alice_jones"}, {Key: "email", Value: "alice@company.com"}, {Key: "status", Value: "active"}, {Key: "role", Value: "user"}, {Key: "department", Value: "marketing"}, {Key: "created_at", Value: "2024-01-04"}},
				{{Key: "username", Value: "charlie_brown"}, {Key: "email", Value: "charlie@company.com"}, {Key: "status", Value: "active"}, {Key: "role", Value: "user"}, {Key: "department", Value: "engineering"}, {Key: "created_at", Value: "2024-01-05"}},
			},
			indexes: []mongo.IndexModel{
				{Keys: key("username"), Options: options.Index().SetUnique(true)},
				{Keys: key("email"), Options: options.Index().SetUnique(true)},
				{Keys: key("status")},
				{Keys: key("role")},
				{Keys: key("department")},
				{Keys: key("status", "role")},
				{Keys: key("department", "status")},
			},
		},
		{
			name: "products",
			docs: []bson.D{
				{{Key: "name", Value: "Gaming Laptop"}, {Key: "category", Value: "electronics"}, {Key: "price", Value: 1299.99}, {Key: "stock", Value: 15}, {Key: "brand", Value: "TechCorp"}, {Key: "rating", Value: 4.5}},
				{{Key: "name", Value: "Smartphone Pro"}, {Key: "category", Value: "electronics"}, {Key: "price", Value: 899.99}, {Key: "stock", Value: 30}, {Key: "brand", Value: "TechCorp"}, {Key: "rating", Value: 4.3}},
				{{Key: "name", Value: "Wireless Headphones"}, {Key: "category", Value: "electronics"}, {Key: "price", Value: 199.99}, {Key: "stock", Value: 50}, {Key: "brand", Value: "AudioTech"}, {Key: "rating", Value: 4.7}},
				{{Key: "name", Value: "Programming Book"}, {Key: "category", Value: "books"}, {Key: "price", Value: 49.99}, {Key: "stock", Value: 100}, {Key: "brand", Value: "TechBooks"}, {Key: "rating", Value: 4.8}},
				{{Key: "name", Value: "Coffee Maker"}, {Key: "category", Value: "home"}, {Key: "price", Value: 89.99}, {Key: "stock", Value: 25}, {Key: "brand", Value: "HomeTech"}, {Key: "rating", Value: 4.2}},
			},
			indexes: []mongo.IndexModel{
				{Keys: key("name")},
				{Keys: key("category")},
				{Keys: key("brand")},
				{Keys: key("price")},
				{Keys: key("rating")},
				{Keys: key("category", "price")},
				{Keys: key("brand", "rating")},
			},
		},
		{
			name: "orders",
			docs: []bson.D{
				{{Key: "order_id", Value: "ORD001"}, {Key: "user_id", Value: "john_doe"}, {Key: "total", Value: 1299.99}, {Key: "status", Value: "completed"}, {Key: "created_at", Value: "2024-01-10"}},
				{{Key: "order_id", Value: "ORD002"}, {Key: "user_id", Value: "jane_smith"}, {Key: "total", Value: 899.99}, {Key: "status", Value: "shipped"}, {Key: "created_at", Value: "2024-01-12"}},
				{{Key: "order_id", Value: "ORD003"}, {Key: "user_id", Value: "bob_wilson"}, {Key: "total", Value: 199.99}, {Key: "status", Value: "pending"}, {Key: "created_at", Value: "2024-01-15"}},
				{{Key: "order_id", Value: "ORD004"}, {Key: "user_id", Value: "alice_jones"}, {Key: "total", Value: 49.99}, {Key: "status", Value: "completed"}, {Key: "created_at", Value: "2024-01-18"}},
				{{Key: "order_id", Value: "ORD005"}, {Key: "user_id", Value: "charlie_brown"}, {Key: "total", Value: 89.99}, {Key: "status", Value: "shipped"}, {Key: "created_at", Value: "2024-01-20"}},
			},
			indexes: []mongo.IndexModel{
				{Keys: key("order_id"), Options: options.Index().SetUnique(true)},
				{Keys: key("user_id")},
				{Keys: key("status")},
				{Keys: key("created_at")},
				{Keys: key("user_id", "status")},
				{Keys: key("status", "created_at")},
			},
		},
	}
}

// EnsureSampleData seeds the users, products and orders collections with
// indexes when the database has no collections at all. An already-populated
// database is left untouched. Reports whether seeding ran.
func (c *Client) EnsureSampleData(ctx context.Context) (bool, error) {
	names, err := c.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return false, fmt.Errorf("listing collections: %w", err)
	}
	if len(names) > 0 {
		return false, nil
	}

	for _, sc := range sampleCollections() {
		coll := c.db.Collection(sc.name)
		if _, err := coll.InsertMany(ctx, sc.docs); err != nil {
			return false, fmt.Errorf("seeding %s: %w", sc.name, err)
		}
		if _, err := coll.Indexes().CreateMany(ctx, sc.indexes); err != nil {
			return false, fmt.Errorf("creating indexes on %s: %w", sc.name, err)
		}
	}

	return true, nil
}
