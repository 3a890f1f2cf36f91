package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserExists         = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
)
