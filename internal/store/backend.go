package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tooniwear/storefront-backend/internal/config"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Backend holds the shared connection for whichever storage was configured.
// Open derives one Store per kind from it.
type Backend struct {
	name    string
	dataDir string
	db      *sql.DB
	mongoDB *mongo.Database
	log     zerolog.Logger
	closers []func() error
}

func OpenBackend(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Backend, error) {
	b := &Backend{name: cfg.Backend, dataDir: cfg.DataDir, log: log}

	switch cfg.Backend {
	case BackendFile, "":
		b.name = BackendFile
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		b.db = db
		b.closers = append(b.closers, db.Close)
	case BackendMongo:
		if cfg.MongoURL == "" {
			return nil, errors.New("MONGO_URL is not set")
		}
		client, err := ConnectMongo(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		b.mongoDB = client.Database(cfg.MongoDB)
		b.closers = append(b.closers, func() error {
			return client.Disconnect(context.Background())
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	return b, nil
}

func (b *Backend) Name() string {
	return b.name
}

func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Open returns the store for kind on the configured backend, creating the
// empty collection when needed.
func Open[T any](ctx context.Context, b *Backend, kind Kind) (Store[T], error) {
	switch b.name {
	case BackendPostgres:
		s := NewPostgresStore[T](b.db, kind, b.log)
		if err := s.EnsureTable(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		return NewMongoStore[T](b.mongoDB.Collection(string(kind)), b.log), nil
	default:
		s, err := OpenFile[T](b.dataDir, kind, b.log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
