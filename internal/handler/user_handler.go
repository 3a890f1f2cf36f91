package handler

import (
	"context"
	"net/http"

	"notebook-server/internal/domain"
	"notebook-server/internal/middleware"
	"notebook-server/pkg/response"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
}

type UserHandler struct {
	*Deps
	userService UserService
}

func NewUserHandler(deps *Deps, userService UserService) *UserHandler {
	return &UserHandler{
		Deps:        deps,
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, user)
}

// UpdateProfile applies name and email only; every other body field,
// password and id included, is dropped by the request type.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req domain.UpdateProfileRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	req.Normalize()
	if err := h.validate(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	user, err := h.userService.UpdateProfile(ctx, userID, req.Update())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, user)
}
