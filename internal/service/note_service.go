package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notebook-server/internal/domain"
	"notebook-server/internal/repository"

	"github.com/google/uuid"
)

// NoteService exposes note CRUD for one owner at a time. The owner id always
// comes from the authenticated request, never from the payload.
type NoteService struct {
	repo repository.NoteRepository
	now  func() time.Time
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *NoteService) Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	now := timestamp(s.now())

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	note := &domain.Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Body:      req.Body,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *NoteService) List(ctx context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error) {
	notes, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}

func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.repo.Update(ctx, ownerID, noteID, req.Update(), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if err := s.repo.Delete(ctx, ownerID, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
