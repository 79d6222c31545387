package order

import (
	"context"
	"sort"
	"time"
)

// Service provides owner-scoped reads over the order history.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// ListForEmail returns the orders shipped to email, newest first.
func (s *Service) ListForEmail(ctx context.Context, email string) ([]Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0)
	for _, o := range all {
		if o.ShippingDetails.Email == email {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out, nil
}

// GetForOwner returns the order only when it was shipped to email.
func (s *Service) GetForOwner(ctx context.Context, id, email string) (Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.ShippingDetails.Email != email {
		return Order{}, ErrForbidden
	}
	return o, nil
}

// createdAt sorts unparsable timestamps last.
func createdAt(o Order) time.Time {
	t, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
