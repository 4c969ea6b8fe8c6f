package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendBadger}

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend"`
	Path    string      `toml:"path"` // file and badger directory
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// Open builds the configured backend. Connection failures carry
// errors.ErrCodeStoreUnavailable.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	case BackendBadger:
		s, err = NewBadgerStore(cfg.Path, logger)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open %s store", backendName(cfg.Backend))
	}
	return Instrument(backendName(cfg.Backend), s), nil
}

func backendName(b string) string {
	if b == "" {
		return BackendFile
	}
	return b
}

// Instrument reports every call on s to the observability store hooks.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, inner: s}
}

type instrumented struct {
	backend string
	inner   Store
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Get(ctx context.Context, id string) (rec *Record, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "get", start, err) }()
	return s.inner.Get(ctx, id)
}

func (s *instrumented) Put(ctx context.Context, rec *Record) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "put", start, err) }()
	return s.inner.Put(ctx, rec)
}

func (s *instrumented) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "delete", start, err) }()
	return s.inner.Delete(ctx, id)
}

func (s *instrumented) List(ctx context.Context) (infos []Info, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "list", start, err) }()
	return s.inner.List(ctx)
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}

// Unwrap returns the backend store.
func (s *instrumented) Unwrap() Store { return s.inner }

func validateID(id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
