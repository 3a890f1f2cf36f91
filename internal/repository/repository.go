package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"notebook-server/internal/domain"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the credential store. Emails are expected in their
// canonical lowercase form.
type UserRepository interface {
	// Create inserts user. It returns ErrDuplicateEmail when the email is
	// taken, including when a concurrent registration wins the race.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// NoteRepository is the note store. Every method is scoped to ownerID and
// reports ErrNotFound both for missing notes and for notes of other owners.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	List(ctx context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error)
	Update(ctx context.Context, ownerID, noteID string, update domain.NoteUpdate, now time.Time) (*domain.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
}

// nextUpdatedAt returns now, or prev plus one millisecond when the clock has
// not moved past prev at millisecond precision.
func nextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(prev) {
		return prev.UTC().Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return now
}

func sortByUpdatedDesc(notes []*domain.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}

// window applies skip and limit to an already ordered listing.
func window(notes []*domain.Note, skip, limit int) []*domain.Note {
	if skip >= len(notes) {
		return []*domain.Note{}
	}
	notes = notes[skip:]
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}
	return notes
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
