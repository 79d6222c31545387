package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/redis/go-redis/v9"
)

// MemoryPersister keeps the snapshot in memory only.
type MemoryPersister struct {
	mu   sync.Mutex
	cart Cart
}

func (p *MemoryPersister) Load(context.Context) (Cart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.clone(), nil
}

func (p *MemoryPersister) Save(_ context.Context, c Cart) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart = c.clone()
	return nil
}

// FilePersister stores the cart as JSON at Path.
type FilePersister struct {
	Path string
}

func (p FilePersister) Load(context.Context) (Cart, error) {
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("read cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (p FilePersister) Save(_ context.Context, c Cart) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := renameio.WriteFile(p.Path, b, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

// RedisPersister stores the cart under "cart:<name>".
type RedisPersister struct {
	client redis.Cmdable
	key    string
}

func NewRedisPersister(client redis.Cmdable, name string) *RedisPersister {
	return &RedisPersister{client: client, key: "cart:" + name}
}

func (p *RedisPersister) Load(ctx context.Context) (Cart, error) {
	s, err := p.client.Get(ctx, p.key).Result()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (p *RedisPersister) Save(ctx context.Context, c Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return p.client.Set(ctx, p.key, b, 0).Err()
}
