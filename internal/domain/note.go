package domain

import "time"

type Note struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"user"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteUpdate lists the mutable note fields. Nil fields are left untouched;
// UpdatedAt is always set by the store.
type NoteUpdate struct {
	Title *string
	Body  *string
	Tags  []string
}

// NoteFilter narrows a listing. Query matches title or body as a
// case-insensitive substring; Tag must equal one of the note's tags.
// Limit 0 means no limit.
type NoteFilter struct {
	Query string
	Tag   string
	Limit int
	Skip  int
}

const MaxListLimit = 1000

type CreateNoteRequest struct {
	Title string   `json:"title" validate:"notblank,max=200"`
	Body  string   `json:"body" validate:"max=100000"`
	Tags  []string `json:"tags" validate:"max=50,dive,max=64"`
}

type UpdateNoteRequest struct {
	Title *string  `json:"title" validate:"omitnil,notblank,max=200"`
	Body  *string  `json:"body" validate:"omitnil,max=100000"`
	Tags  []string `json:"tags" validate:"omitempty,max=50,dive,max=64"`
}

func (r *UpdateNoteRequest) Update() NoteUpdate {
	return NoteUpdate{Title: r.Title, Body: r.Body, Tags: r.Tags}
}

type DeleteResponse struct {
	Msg string `json:"msg"`
}
