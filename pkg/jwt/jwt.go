// Package jwt issues and verifies the HS256 bearer tokens used by the API.
//
// Tokens are self-contained: validity depends only on the signature and the
// expiry, there is no server-side lookup and no revocation.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is required")
)

// TokenUser is the identity embedded in the token payload.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims carries {"user":{"id":...}} alongside the registered claims, the
// payload shape the web client decodes.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// GenerateToken and ValidateToken are one-shot forms of Manager that use
// the wall clock. Unlike NewManager they accept any expiration.
func GenerateToken(userID string, expiration time.Duration, secret string) (string, error) {
	m := &Manager{secret: []byte(secret), expiration: expiration, now: time.Now}
	return m.Issue(userID)
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	m := &Manager{secret: []byte(secret), now: time.Now}
	return m.claims(tokenString)
}

// Manager holds the process-wide signing secret and token lifetime.
type Manager struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewManager(secret string, expiration time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if expiration <= 0 {
		return nil, fmt.Errorf("token expiration must be positive, got %s", expiration)
	}

	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// Issue signs a token for userID that expires after the configured lifetime.
func (m *Manager) Issue(userID string) (string, error) {
	return sign(userID, m.now(), m.expiration, m.secret)
}

// Verify returns the user id carried by token. Any failure, whether a bad
// signature, a wrong algorithm, a missing or elapsed expiry or a malformed
// payload, yields an error wrapping ErrInvalidToken.
func (m *Manager) Verify(token string) (string, error) {
	claims, err := m.claims(token)
	if err != nil {
		return "", err
	}
	return claims.User.ID, nil
}

func (m *Manager) claims(token string) (*Claims, error) {
	return parse(token, m.secret, m.now)
}

func sign(userID string, now time.Time, expiration time.Duration, secret []byte) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	claims := Claims{
		User: TokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func parse(tokenString string, secret []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.User.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims, nil
}
