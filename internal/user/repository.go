package user

import (
	"context"
	"errors"

	"github.com/tooniwear/storefront-backend/internal/store"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	// GetByEmail matches the email exactly as stored.
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
}

// RecordRepository keeps users in a record store.
type RecordRepository struct {
	records store.Store[User]
}

func NewRecordRepository(records store.Store[User]) *RecordRepository {
	return &RecordRepository{records: records}
}

func (r *RecordRepository) List(ctx context.Context) ([]User, error) {
	return r.records.ReadAll(ctx)
}

func (r *RecordRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	users, err := r.records.ReadAll(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *RecordRepository) Create(ctx context.Context, u User) error {
	return r.records.Append(ctx, u)
}
