package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notebook-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type userDoc struct {
	ID           string    `json:"_id"`
	Rev          string    `json:"_rev,omitempty"`
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// emailDoc reserves an email address. CouchDB has no secondary unique
// indexes, so uniqueness rests on the reservation's document id.
type emailDoc struct {
	ID        string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// staleReservationAge is how long a reservation without a matching user is
// trusted to belong to a write still in flight.
const staleReservationAge = time.Minute

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	db := r.client.DB(r.dbName)

	reservationRev, err := r.reserveEmail(ctx, user.Email, user.ID)
	if err != nil {
		return err
	}

	doc := &userDoc{
		ID:           userDocID(user.ID),
		Type:         userDocType,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}

	if _, err := db.Put(ctx, doc.ID, doc); err != nil {
		_, _ = db.Delete(ctx, emailDocID(user.Email), reservationRev)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	var reservation emailDoc
	if err := db.Get(ctx, emailDocID(email)).ScanDoc(&reservation); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	user, err := r.FindByID(ctx, reservation.UserID)
	if err != nil {
		return nil, err
	}
	if user.Email != email {
		return nil, ErrNotFound
	}

	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *userRepository) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldEmail := doc.Email
	var newReservationRev string
	emailChanged := update.Email != nil && *update.Email != oldEmail

	if emailChanged {
		newReservationRev, err = r.reserveEmail(ctx, *update.Email, id)
		if err != nil {
			return nil, err
		}
		doc.Email = *update.Email
	}
	if update.Name != nil {
		doc.Name = *update.Name
	}

	if _, err := db.Put(ctx, doc.ID, doc); err != nil {
		if emailChanged {
			_, _ = db.Delete(ctx, emailDocID(doc.Email), newReservationRev)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if emailChanged {
		r.releaseEmail(ctx, oldEmail, id)
	}

	return doc.toDomain(), nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *userRepository) get(ctx context.Context, id string) (*userDoc, error) {
	db := r.client.DB(r.dbName)

	var doc userDoc
	if err := db.Get(ctx, userDocID(id)).ScanDoc(&doc); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if doc.Type != userDocType {
		return nil, ErrNotFound
	}

	return &doc, nil
}

// reserveEmail creates the reservation for email and returns its revision.
// A reservation left behind by an interrupted write, one older than
// staleReservationAge whose user is gone or no longer holds the address, is
// reclaimed once.
func (r *userRepository) reserveEmail(ctx context.Context, email, userID string) (string, error) {
	db := r.client.DB(r.dbName)
	doc := &emailDoc{
		ID:        emailDocID(email),
		Type:      emailDocType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 0; ; attempt++ {
		rev, err := db.Put(ctx, doc.ID, doc)
		if err == nil {
			return rev, nil
		}
		if !isConflict(err) {
			return "", fmt.Errorf("failed to reserve email: %w", err)
		}
		if attempt > 0 {
			return "", ErrDuplicateEmail
		}

		stale, staleRev, err := r.staleReservation(ctx, email)
		if err != nil {
			return "", err
		}
		if !stale {
			return "", ErrDuplicateEmail
		}
		if staleRev == "" {
			continue
		}
		if _, err := db.Delete(ctx, doc.ID, staleRev); err != nil && !isConflict(err) && !isNotFound(err) {
			return "", fmt.Errorf("failed to reclaim email reservation: %w", err)
		}
	}
}

func (r *userRepository) staleReservation(ctx context.Context, email string) (bool, string, error) {
	db := r.client.DB(r.dbName)

	var reservation emailDoc
	if err := db.Get(ctx, emailDocID(email)).ScanDoc(&reservation); err != nil {
		if isNotFound(err) {
			return true, "", nil
		}
		return false, "", fmt.Errorf("failed to read email reservation: %w", err)
	}

	if time.Since(reservation.CreatedAt) < staleReservationAge {
		return false, "", nil
	}

	owner, err := r.get(ctx, reservation.UserID)
	if errors.Is(err, ErrNotFound) {
		return true, reservation.Rev, nil
	}
	if err != nil {
		return false, "", err
	}

	return owner.Email != email, reservation.Rev, nil
}

func (r *userRepository) releaseEmail(ctx context.Context, email, userID string) {
	db := r.client.DB(r.dbName)

	var reservation emailDoc
	if err := db.Get(ctx, emailDocID(email)).ScanDoc(&reservation); err != nil {
		return
	}
	if reservation.UserID != userID {
		return
	}
	_, _ = db.Delete(ctx, reservation.ID, reservation.Rev)
}
