// Package store persists append-only record collections. Every collection
// ("kind") reads back in the order records were appended.
package store

import "context"

// Kind names a persisted collection.
type Kind string

const (
	KindUsers  Kind = "users"
	KindOrders Kind = "orders"
)

// TimeLayout formats record creation timestamps: UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the read-all/append-one contract shared by every backend.
type Store[T any] interface {
	ReadAll(ctx context.Context) ([]T, error)
	Append(ctx context.Context, record T) error
}
