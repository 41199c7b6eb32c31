package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func pairIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "document_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// EnsureIndexes creates the indexes every collection relies on. The unique
// (document_id, user_id) indexes back the atomic toggles and the first-wins
// download record, so startup fails if they cannot be built.
func EnsureIndexes(ctx context.Context, db *mongo.Database, documentsCollection string) error {
	plan := map[string][]mongo.IndexModel{
		documentsCollection: {
			{Keys: bson.D{{Key: "university", Value: 1}, {Key: "faculty", Value: 1}, {Key: "course", Value: 1}}},
			{Keys: bson.D{{Key: "uploaded_at", Value: -1}}},
			{Keys: bson.D{{Key: "uploader_id", Value: 1}, {Key: "uploaded_at", Value: -1}}},
		},
		votesCollectionName:     {pairIndex()},
		favoritesCollectionName: {pairIndex(), {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		downloadsCollectionName: {pairIndex(), {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "downloaded_at", Value: -1}}}},
		commentsCollectionName:  {{Keys: bson.D{{Key: "document_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	}

	for _, name := range []string{
		documentsCollection,
		votesCollectionName,
		favoritesCollectionName,
		downloadsCollectionName,
		commentsCollectionName,
	} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, plan[name]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
