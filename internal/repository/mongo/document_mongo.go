package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/model"
	"unihub/internal/repository"
)

// DocumentMongo implements repository.DocumentRepository on a MongoDB collection.
type DocumentMongo struct {
	collection *mongo.Collection
}

// NewDocumentMongo creates a document repository over db.collectionName.
func NewDocumentMongo(db *mongo.Database, collectionName string) *DocumentMongo {
	return &DocumentMongo{collection: db.Collection(collectionName)}
}

var _ repository.DocumentRepository = (*DocumentMongo)(nil)

var newestFirst = bson.D{{Key: "uploaded_at", Value: -1}}

// Create inserts a new document.
func (r *DocumentMongo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.ID == "" {
		return nil, errors.New("document requires an id")
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	out := *doc
	return &out, nil
}

// FindByID retrieves a document by its ID.
func (r *DocumentMongo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// List returns documents matching every non-empty filter field exactly.
func (r *DocumentMongo) List(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error) {
	return r.find(ctx, filterDoc(filter), options.Find().SetSort(newestFirst))
}

// ListByUploader returns one user's uploads, newest first.
func (r *DocumentMongo) ListByUploader(ctx context.Context, userID string) ([]model.Document, error) {
	return r.find(ctx, bson.M{"uploader_id": userID}, options.Find().SetSort(newestFirst))
}

// SetContent stores the computed summary and keywords on the document.
func (r *DocumentMongo) SetContent(ctx context.Context, id string, summary *string, keywords []string) error {
	set := bson.M{}
	if summary != nil {
		set["summary"] = *summary
	}
	if keywords != nil {
		set["keywords"] = keywords
	}
	if len(set) == 0 {
		return nil
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementDownloads adds one to the document's download counter.
func (r *DocumentMongo) IncrementDownloads(ctx context.Context, id string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"download_count": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Search is the regex fallback used when no search engine is reachable.
func (r *DocumentMongo) Search(ctx context.Context, text string, filter model.DocumentFilter, limit int) ([]model.Document, error) {
	query := filterDoc(filter)
	if text != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"documentTitle": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
			bson.M{"course": pattern},
		}
	}
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, query, opts)
}

func (r *DocumentMongo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Document, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
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

func filterDoc(f model.DocumentFilter) bson.M {
	m := bson.M{}
	if f.University != "" {
		m["university"] = f.University
	}
	if f.Faculty != "" {
		m["faculty"] = f.Faculty
	}
	if f.Course != "" {
		m["course"] = f.Course
	}
	return m
}
