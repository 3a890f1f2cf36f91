package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserUpdate lists the profile fields that may change after registration.
// A nil field is left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is the allow-list of fields accepted by PUT /profile.
// Anything else in the body is dropped during decoding.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Email *string `json:"email" validate:"omitnil,email"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := NormalizeEmail(*r.Email)
		r.Email = &email
	}
}

func (r *UpdateProfileRequest) Update() UserUpdate {
	return UserUpdate{Name: r.Name, Email: r.Email}
}

// NormalizeEmail returns the canonical stored form of an email address.
// Uniqueness is checked against this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
