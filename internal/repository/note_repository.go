package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"notebook-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// couchPageSize bounds a single _find round trip; listings follow bookmarks
// until the result set is drained.
const couchPageSize = 200

type noteDoc struct {
	ID        string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Type      string    `json:"type"`
	NoteID    string    `json:"note_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *noteDoc) toDomain() *domain.Note {
	return &domain.Note{
		ID:        d.NoteID,
		OwnerID:   d.UserID,
		Title:     d.Title,
		Body:      d.Body,
		Tags:      nonNilTags(d.Tags),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	doc := &noteDoc{
		ID:        noteDocID(note.ID),
		Type:      noteDocType,
		NoteID:    note.ID,
		UserID:    note.OwnerID,
		Title:     note.Title,
		Body:      note.Body,
		Tags:      nonNilTags(note.Tags),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}

	if _, err := db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) List(ctx context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector":  noteSelector(ownerID, filter),
		"limit":     couchPageSize,
		"use_index": []string{notesDesignDoc, notesIndexName},
	}

	notes := []*domain.Note{}
	for {
		rows := db.Find(ctx, query)

		count := 0
		for rows.Next() {
			var doc noteDoc
			if err := rows.ScanDoc(&doc); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan note: %w", err)
			}
			notes = append(notes, doc.toDomain())
			count++
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to list notes: %w", err)
		}

		meta, err := rows.Metadata()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read list metadata: %w", err)
		}

		if count < couchPageSize || meta.Bookmark == "" {
			break
		}
		query["bookmark"] = meta.Bookmark
	}

	sortByUpdatedDesc(notes)
	return window(notes, filter.Skip, filter.Limit), nil
}

func (r *noteRepository) Update(ctx context.Context, ownerID, noteID string, update domain.NoteUpdate, now time.Time) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	doc, err := r.getOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		doc.Title = *update.Title
	}
	if update.Body != nil {
		doc.Body = *update.Body
	}
	if update.Tags != nil {
		doc.Tags = update.Tags
	}
	doc.UpdatedAt = nextUpdatedAt(doc.UpdatedAt, now)

	if _, err := db.Put(ctx, doc.ID, doc); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *noteRepository) Delete(ctx context.Context, ownerID, noteID string) error {
	db := r.client.DB(r.dbName)

	doc, err := r.getOwned(ctx, ownerID, noteID)
	if err != nil {
		return err
	}

	if _, err := db.Delete(ctx, doc.ID, doc.Rev); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// getOwned loads a note and hides it unless ownerID owns it.
func (r *noteRepository) getOwned(ctx context.Context, ownerID, noteID string) (*noteDoc, error) {
	db := r.client.DB(r.dbName)

	var doc noteDoc
	if err := db.Get(ctx, noteDocID(noteID)).ScanDoc(&doc); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	if doc.Type != noteDocType || doc.UserID != ownerID {
		return nil, ErrNotFound
	}

	return &doc, nil
}

// noteSelector builds the Mango selector for a listing. The owner clause is
// always present.
func noteSelector(ownerID string, filter domain.NoteFilter) map[string]interface{} {
	selector := map[string]interface{}{
		"type":    noteDocType,
		"user_id": ownerID,
	}

	if filter.Query != "" {
		pattern := "(?i)" + regexp.QuoteMeta(filter.Query)
		selector["$or"] = []interface{}{
			map[string]interface{}{"title": map[string]interface{}{"$regex": pattern}},
			map[string]interface{}{"body": map[string]interface{}{"$regex": pattern}},
		}
	}

	if filter.Tag != "" {
		selector["tags"] = map[string]interface{}{
			"$elemMatch": map[string]interface{}{"$eq": filter.Tag},
		}
	}

	return selector
}
