package store

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
	"github.com/rs/zerolog"
)

// FileStore keeps a kind as a JSON array in <dir>/<kind>.json. Appends rewrite
// the whole file. The mutex only orders writers inside this process; a second
// process writing the same file can still lose updates.
type FileStore[T any] struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// OpenFile makes sure the data directory and an empty array exist for kind.
func OpenFile[T any](dir string, kind Kind, log zerolog.Logger) (*FileStore[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dir, string(kind)+".json")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := renameio.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileStore[T]{
		path: path,
		log:  log.With().Str("kind", string(kind)).Logger(),
	}, nil
}

func (s *FileStore[T]) Path() string {
	return s.path
}

func (s *FileStore[T]) ReadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *FileStore[T]) Append(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// readAll treats a missing file as empty and an unparsable one as empty too,
// logging the latter.
func (s *FileStore[T]) readAll() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("record file is not a JSON array, reading as empty")
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
