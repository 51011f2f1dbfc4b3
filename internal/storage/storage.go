package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const (
	// SchemaVersion is the layout version written by this build.
	SchemaVersion = 1

	schemaInfoKey      = "schema"
	defaultLockTimeout = time.Second
	defaultFileMode    = 0o600
)

// ErrSchemaTooNew indicates the database was written by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

// SchemaInfo records which layout version a database file carries.
type SchemaInfo struct {
	Version   int
	CreatedAt time.Time
}

// buckets lists every schema object EnsureSchema creates. bolthold keeps each
// record type in a bucket named after the type.
var buckets = []string{
	"SchemaInfo",
}

// Store is a bolthold database opened from a bolt URI.
type Store struct {
	store *bolthold.Store
	path  string
	clock func() time.Time
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	lockTimeout time.Duration
	fileMode    os.FileMode
	clock       func() time.Time
}

// WithLockTimeout bounds how long Open waits for another process holding the
// file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		o.lockTimeout = d
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *openOptions) {
		o.clock = clock
	}
}

// Open opens (creating if needed) the database file named by uri.
func Open(uri string, opts ...Option) (*Store, error) {
	path, err := ParsePath(uri)
	if err != nil {
		return nil, err
	}

	cfg := openOptions{
		lockTimeout: defaultLockTimeout,
		fileMode:    defaultFileMode,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	store, err := bolthold.Open(path, cfg.fileMode, &bolthold.Options{
		Options: &bolt.Options{Timeout: cfg.lockTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	return &Store{store: store, path: path, clock: cfg.clock}, nil
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates every declared bucket and the schema record if they
// are missing. Running it again against an existing database is a no-op.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.store.Bolt().Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}

		var info SchemaInfo
		err := s.store.TxGet(tx, schemaInfoKey, &info)
		switch {
		case errors.Is(err, bolthold.ErrNotFound):
			info = SchemaInfo{Version: SchemaVersion, CreatedAt: s.clock()}
			if err := s.store.TxInsert(tx, schemaInfoKey, info); err != nil {
				return fmt.Errorf("write schema info: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("read schema info: %w", err)
		case info.Version > SchemaVersion:
			return fmt.Errorf("%w: found version %d, support up to %d", ErrSchemaTooNew, info.Version, SchemaVersion)
		}
		return nil
	})
}

// Schema returns the stored schema record. It fails with bolthold.ErrNotFound
// before EnsureSchema has run.
func (s *Store) Schema(ctx context.Context) (SchemaInfo, error) {
	if err := ctx.Err(); err != nil {
		return SchemaInfo{}, err
	}

	var info SchemaInfo
	if err := s.store.Get(schemaInfoKey, &info); err != nil {
		return SchemaInfo{}, err
	}
	return info, nil
}

// Ping runs an empty read transaction to confirm the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Bolt().View(func(*bolt.Tx) error {
		return nil
	})
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.store.Close()
}
