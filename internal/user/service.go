package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tooniwear/storefront-backend/internal/password"
	"github.com/tooniwear/storefront-backend/internal/store"
)

type Service struct {
	repo   Repository
	hasher *password.Hasher

	// mu makes the email check and the append one step within this process.
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, hasher *password.Hasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = sanitizeUser(users[i])
	}
	return users, nil
}

// Register stores a new user with a hashed password. It returns
// ErrEmailExists when a user with the same email is already stored.
func (s *Service) Register(ctx context.Context, fullName, email, plain string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:        s.newID(),
		FullName:  fullName,
		Email:     email,
		Password:  hashed,
		CreatedAt: s.now().UTC().Format(store.TimeLayout),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, fmt.Errorf("save user: %w", err)
	}
	return sanitizeUser(u), nil
}

// Authenticate returns the sanitized user for a matching email and password.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, plain string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(plain, u.Password) {
		return User{}, ErrInvalidCredentials
	}
	return sanitizeUser(u), nil
}
