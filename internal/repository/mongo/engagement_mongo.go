package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/model"
	"unihub/internal/repository"
)

const (
	commentsCollectionName  = "comments"
	votesCollectionName     = "votes"
	favoritesCollectionName = "favorites"
	downloadsCollectionName = "downloads"
)

// EngagementMongo implements repository.EngagementRepository over the
// comments, votes, favorites and downloads collections.
type EngagementMongo struct {
	comments  *mongo.Collection
	votes     *mongo.Collection
	favorites *mongo.Collection
	downloads *mongo.Collection
	// documentsName is the collection joined by the history lookups.
	documentsName string
	now           func() time.Time
}

// NewEngagementMongo creates an engagement repository on db.
func NewEngagementMongo(db *mongo.Database, documentsCollection string) *EngagementMongo {
	return &EngagementMongo{
		comments:      db.Collection(commentsCollectionName),
		votes:         db.Collection(votesCollectionName),
		favorites:     db.Collection(favoritesCollectionName),
		downloads:     db.Collection(downloadsCollectionName),
		documentsName: documentsCollection,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ repository.EngagementRepository = (*EngagementMongo)(nil)

// AddComment appends a comment. ID and CreatedAt are assigned when empty.
func (r *EngagementMongo) AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	out := *c
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = r.now()
	}
	if _, err := r.comments.InsertOne(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComments returns a document's comments, oldest first.
func (r *EngagementMongo) ListComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.comments.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]model.Comment, 0)
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ToggleVote removes the caller's vote if present, otherwise adds it.
func (r *EngagementMongo) ToggleVote(ctx context.Context, documentID, userID string) (bool, error) {
	return r.toggle(ctx, r.votes, documentID, userID)
}

// HasVoted reports whether userID has voted for documentID.
func (r *EngagementMongo) HasVoted(ctx context.Context, documentID, userID string) (bool, error) {
	return r.exists(ctx, r.votes, documentID, userID)
}

// CountVotes counts the votes on one document.
func (r *EngagementMongo) CountVotes(ctx context.Context, documentID string) (int, error) {
	n, err := r.votes.CountDocuments(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ToggleFavorite removes the favorite if present, otherwise adds it.
func (r *EngagementMongo) ToggleFavorite(ctx context.Context, documentID, userID string) (bool, error) {
	return r.toggle(ctx, r.favorites, documentID, userID)
}

// IsFavorite reports whether userID has favorited documentID.
func (r *EngagementMongo) IsFavorite(ctx context.Context, documentID, userID string) (bool, error) {
	return r.exists(ctx, r.favorites, documentID, userID)
}

// ListFavorites returns the favorited documents, most recently favorited first.
func (r *EngagementMongo) ListFavorites(ctx context.Context, userID string) ([]model.Document, error) {
	return r.joinDocuments(ctx, r.favorites, userID, "created_at")
}

// RecordDownload upserts the (document, user) record with $setOnInsert so
// the first download wins and repeats leave the record untouched.
func (r *EngagementMongo) RecordDownload(ctx context.Context, documentID, userID string) (bool, error) {
	filter := bson.M{"document_id": documentID, "user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{"downloaded_at": r.now()}}

	result, err := r.downloads.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent first downloads race on the unique index; one of them wins.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

// ListDownloads returns the user's downloaded documents, most recent download first.
func (r *EngagementMongo) ListDownloads(ctx context.Context, userID string) ([]model.Document, error) {
	return r.joinDocuments(ctx, r.downloads, userID, "downloaded_at")
}

// CountVotesByDocument counts votes for every id in one grouped aggregation.
func (r *EngagementMongo) CountVotesByDocument(ctx context.Context, ids []string) (map[string]int, error) {
	return r.countByDocument(ctx, r.votes, ids)
}

// CountCommentsByDocument counts comments for every id in one grouped aggregation.
func (r *EngagementMongo) CountCommentsByDocument(ctx context.Context, ids []string) (map[string]int, error) {
	return r.countByDocument(ctx, r.comments, ids)
}

func (r *EngagementMongo) toggle(ctx context.Context, coll *mongo.Collection, documentID, userID string) (bool, error) {
	filter := bson.M{"document_id": documentID, "user_id": userID}

	deleted, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	if deleted.DeletedCount > 0 {
		return false, nil
	}

	rec := bson.M{"document_id": documentID, "user_id": userID, "created_at": r.now()}
	if _, err := coll.InsertOne(ctx, rec); err != nil {
		// A concurrent add already holds the key.
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *EngagementMongo) exists(ctx context.Context, coll *mongo.Collection, documentID, userID string) (bool, error) {
	filter := bson.M{"document_id": documentID, "user_id": userID}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})

	err := coll.FindOne(ctx, filter, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type docCount struct {
	ID    string `bson:"_id"`
	Count int    `bson:"count"`
}

func (r *EngagementMongo) countByDocument(ctx context.Context, coll *mongo.Collection, ids []string) (map[string]int, error) {
	counts := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"document_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$document_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []docCount
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// joinDocuments resolves a user's engagement records to documents, ordered
// by the record's timestamp field, newest first.
func (r *EngagementMongo) joinDocuments(ctx context.Context, coll *mongo.Collection, userID, tsField string) ([]model.Document, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: tsField, Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.documentsName,
			"localField":   "document_id",
			"foreignField": "_id",
			"as":           "document",
		}}},
		{{Key: "$unwind", Value: "$document"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$document"}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]model.Document, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
