package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"notebook-server/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoNote struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	Tags      []string  `bson:"tags"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (n *mongoNote) toDomain() *domain.Note {
	return &domain.Note{
		ID:        n.ID,
		OwnerID:   n.UserID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      nonNilTags(n.Tags),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type mongoNoteRepository struct {
	collection *mongo.Collection
}

func NewMongoNoteRepository(db *mongo.Database) NoteRepository {
	return &mongoNoteRepository{
		collection: db.Collection(notesCollection),
	}
}

func (r *mongoNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	doc := &mongoNote{
		ID:        note.ID,
		UserID:    note.OwnerID,
		Title:     note.Title,
		Body:      note.Body,
		Tags:      nonNilTags(note.Tags),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *mongoNoteRepository) List(ctx context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}

	cursor, err := r.collection.Find(ctx, mongoNoteFilter(ownerID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoNote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}

	return notes, nil
}

// Update applies the change as a single pipeline update so the owner check
// and the updated_at bump happen atomically. updated_at becomes
// max(now, previous + 1ms).
func (r *mongoNoteRepository) Update(ctx context.Context, ownerID, noteID string, update domain.NoteUpdate, now time.Time) (*domain.Note, error) {
	set := bson.D{}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: bson.M{"$literal": *update.Title}})
	}
	if update.Body != nil {
		set = append(set, bson.E{Key: "body", Value: bson.M{"$literal": *update.Body}})
	}
	if update.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: bson.M{"$literal": update.Tags}})
	}
	set = append(set, bson.E{Key: "updated_at", Value: bson.M{
		"$max": bson.A{
			now.UTC().Truncate(time.Millisecond),
			bson.M{"$add": bson.A{"$updated_at", 1}},
		},
	}})

	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	var doc mongoNote
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": noteID, "user_id": ownerID},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *mongoNoteRepository) Delete(ctx context.Context, ownerID, noteID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": noteID, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// mongoNoteFilter builds the listing filter. The owner clause is always
// present.
func mongoNoteFilter(ownerID string, filter domain.NoteFilter) bson.M {
	query := bson.M{"user_id": ownerID}

	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"body": pattern},
		}
	}

	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}

	return query
}
