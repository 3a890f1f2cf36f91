package handler

import (
	"context"
	"net/http"

	"notebook-server/internal/domain"
	"notebook-server/pkg/response"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.TokenResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error)
}

type AuthHandler struct {
	*Deps
	authService AuthService
}

func NewAuthHandler(deps *Deps, authService AuthService) *AuthHandler {
	return &AuthHandler{
		Deps:        deps,
		authService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
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

	tokenResp, err := h.authService.Register(ctx, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, tokenResp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
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

	tokenResp, err := h.authService.Login(ctx, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, tokenResp)
}
