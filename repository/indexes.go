package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func key(field string, order interface{}) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: order}}}
}

func compound(a, b string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: a, Value: 1}, {Key: b, Value: 1}}}
}

// Indexes lists the index set each collection needs, keyed by collection name.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetSparse(true)},
			key("role", 1),
		},
		IssuesCollection: {
			key("location", "2dsphere"),
			key("status", 1),
			key("category", 1),
			key("createdBy", 1),
			key("assignedTo", 1),
			key("createdAt", -1),
			key("upvotes.user", 1),
		},
		AssignmentsCollection: {
			key("issue", 1),
			key("assignedTo", 1),
			key("assignedBy", 1),
			key("status", 1),
			key("createdAt", -1),
			compound("assignedTo", "status"),
			compound("issue", "status"),
		},
	}
}

// EnsureIndexes creates any missing index; existing ones are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, idx := range Indexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
