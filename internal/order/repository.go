package order

import (
	"context"
	"errors"

	"github.com/tooniwear/storefront-backend/internal/store"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrForbidden = errors.New("order belongs to another customer")
)

// Repository defines persistence operations for orders.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	// GetByID returns the first order with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (Order, error)
	Create(ctx context.Context, ord Order) error
}

// RecordRepository keeps orders in a record store. Lookups scan the whole
// collection.
type RecordRepository struct {
	records store.Store[Order]
}

func NewRecordRepository(records store.Store[Order]) *RecordRepository {
	return &RecordRepository{records: records}
}

func (r *RecordRepository) List(ctx context.Context) ([]Order, error) {
	return r.records.ReadAll(ctx)
}

func (r *RecordRepository) GetByID(ctx context.Context, id string) (Order, error) {
	all, err := r.records.ReadAll(ctx)
	if err != nil {
		return Order{}, err
	}
	for _, o := range all {
		if o.OrderID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *RecordRepository) Create(ctx context.Context, ord Order) error {
	return r.records.Append(ctx, ord)
}
