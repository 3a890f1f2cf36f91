package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"notebook-server/internal/domain"
	"notebook-server/internal/middleware"
	"notebook-server/pkg/response"

	"github.com/gorilla/mux"
)

type NoteService interface {
	Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.Note, error)
	List(ctx context.Context, ownerID string, filter domain.NoteFilter) ([]*domain.Note, error)
	Update(ctx context.Context, ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
}

type NoteHandler struct {
	*Deps
	service NoteService
}

func NewNoteHandler(deps *Deps, service NoteService) *NoteHandler {
	return &NoteHandler{
		Deps:    deps,
		service: service,
	}
}

// listQuery carries the GET /notes query parameters.
type listQuery struct {
	Limit int `json:"limit" validate:"min=0,max=1000"`
	Skip  int `json:"skip" validate:"min=0"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	notes, err := h.service.List(ctx, userID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req domain.CreateNoteRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.validate(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	note, err := h.service.Create(ctx, userID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	noteID := mux.Vars(r)["id"]

	var req domain.UpdateNoteRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.validate(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	note, err := h.service.Update(ctx, userID, noteID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	noteID := mux.Vars(r)["id"]

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, userID, noteID); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, domain.DeleteResponse{Msg: "Deleted"})
}

func (h *NoteHandler) parseFilter(r *http.Request) (domain.NoteFilter, error) {
	q := r.URL.Query()
	filter := domain.NoteFilter{
		Query: q.Get("q"),
		Tag:   q.Get("tag"),
	}

	var lq listQuery
	var errs []response.FieldError
	params := []struct {
		name string
		dst  *int
	}{
		{"limit", &lq.Limit},
		{"skip", &lq.Skip},
	}
	for _, p := range params {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, response.FieldError{Field: p.name, Msg: "must be an integer"})
			continue
		}
		*p.dst = n
	}
	if len(errs) > 0 {
		return filter, &queryError{errs: errs}
	}

	if err := h.validate(lq); err != nil {
		return filter, err
	}

	filter.Limit = lq.Limit
	filter.Skip = lq.Skip
	return filter, nil
}

// queryError reports query parameters that are not integers.
type queryError struct {
	errs []response.FieldError
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid query: %d field(s)", len(e.errs))
}
