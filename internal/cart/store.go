package cart

import (
	"context"
	"sync"
)

// DefaultName is the storage key the storefront uses for the shopper's cart.
const DefaultName = "tooni-wear-cart"

// Persister loads and saves a cart snapshot. Load returns an empty cart when
// nothing was saved yet.
type Persister interface {
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) error
}

// Store wraps a Cart with persistence and change notification.
type Store struct {
	mu        sync.Mutex
	cart      Cart
	persister Persister
	subs      map[int]func(Cart)
	nextSub   int
}

// NewStore hydrates the cart from p.
func NewStore(ctx context.Context, p Persister) (*Store, error) {
	c, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{cart: c, persister: p, subs: make(map[int]func(Cart))}, nil
}

// Get returns a copy of the current cart.
func (s *Store) Get() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}

// Set applies fn, saves the result and notifies subscribers. The in-memory
// cart is left untouched if saving fails.
func (s *Store) Set(ctx context.Context, fn func(*Cart)) error {
	s.mu.Lock()
	next := s.cart.clone()
	fn(&next)
	if err := s.persister.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cart = next
	subs := make([]func(Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
	return nil
}

// Subscribe registers fn for every successful Set. The returned func removes it.
func (s *Store) Subscribe(fn func(Cart)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
