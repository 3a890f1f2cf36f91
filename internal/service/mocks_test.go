package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"notebook-server/internal/domain"
	"notebook-server/internal/repository"
)

type mockUserRepository struct {
	users     map[string]*domain.User
	createErr error
	findErr   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Update(_ context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Email != nil {
		for _, u := range m.users {
			if u.ID != id && u.Email == *update.Email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

type mockNoteRepository struct {
	notes   map[string]*domain.Note
	lastNow time.Time
	listErr error
}

func newMockNoteRepository() *mockNoteRepository {
	return &mockNoteRepository{
		notes: make(map[string]*domain.Note),
	}
}

func (m *mockNoteRepository) Create(_ context.Context, note *domain.Note) error {
	cp := *note
	m.notes[note.ID] = &cp
	return nil
}

func (m *mockNoteRepository) List(_ context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var notes []*domain.Note
	for _, n := range m.notes {
		if n.OwnerID != ownerID {
			continue
		}
		q := strings.ToLower(filter.Query)
		if q != "" && !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Body), q) {
			continue
		}
		cp := *n
		notes = append(notes, &cp)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

func (m *mockNoteRepository) Update(_ context.Context, ownerID, noteID string, update domain.NoteUpdate, now time.Time) (*domain.Note, error) {
	m.lastNow = now
	n, ok := m.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if update.Title != nil {
		n.Title = *update.Title
	}
	if update.Body != nil {
		n.Body = *update.Body
	}
	if update.Tags != nil {
		n.Tags = update.Tags
	}
	n.UpdatedAt = now
	cp := *n
	return &cp, nil
}

func (m *mockNoteRepository) Delete(_ context.Context, ownerID, noteID string) error {
	n, ok := m.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.notes, noteID)
	return nil
}
