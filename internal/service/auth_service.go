package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"notebook-server/internal/domain"
	"notebook-server/internal/repository"
	"notebook-server/pkg/hash"

	"github.com/google/uuid"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Register creates an account and returns a token for it. req must already
// be normalized and validated.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.TokenResponse, error) {
	emailExists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if emailExists {
		return nil, domain.ErrUserExists
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    timestamp(s.now()),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user.ID)
}

// Login exchanges credentials for a token. Unknown emails and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			hash.Verify(dummyHash(), req.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !hash.Verify(user.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user.ID)
}

func (s *AuthService) issue(userID string) (*domain.TokenResponse, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &domain.TokenResponse{Token: token}, nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = hash.Hash(uuid.New().String())
	})
	return dummyHashValue
}

// timestamp normalizes t to the millisecond UTC precision every backend
// stores.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
