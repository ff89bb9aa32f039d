package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EnginePostgres Engine = "postgres"
)

var ErrStoreUnavailable = errors.New("store unavailable")

// Conn hands out the gorm handle. Repositories hold a Conn instead of a
// *gorm.DB so the store can be opened on first use.
type Conn interface {
	Get(ctx context.Context) (*gorm.DB, error)
}

type Options struct {
	DSN            string
	TracingEnabled bool
	// gorm logger level: silent, error, warn, info
	LogLevel string
	// OnOpen runs once right after connecting, e.g. migrations.
	OnOpen func(ctx context.Context, gdb *gorm.DB) error
	// OnPool is called with the postgres pool once it exists.
	OnPool func(pool *pgxpool.Pool)
}

// Store is the process wide lazily opened database handle. Options are
// fixed at construction; the connection is made on the first Get. A failed
// open is not cached, the next Get tries again.
type Store struct {
	opts Options

	mu   sync.Mutex
	db   atomic.Pointer[gorm.DB]
	pool *pgxpool.Pool
}

func NewStore(opts Options) *Store {
	return &Store{opts: opts}
}

func (s *Store) Get(ctx context.Context) (*gorm.DB, error) {
	if gdb := s.db.Load(); gdb != nil {
		return gdb, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gdb := s.db.Load(); gdb != nil {
		return gdb, nil
	}

	gdb, pool, err := Open(ctx, s.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if s.opts.OnOpen != nil {
		if err := s.opts.OnOpen(ctx, gdb); err != nil {
			closeAll(gdb, pool)
			return nil, fmt.Errorf("%w: on open: %w", ErrStoreUnavailable, err)
		}
	}

	if pool != nil && s.opts.OnPool != nil {
		s.opts.OnPool(pool)
	}

	s.pool = pool
	s.db.Store(gdb)
	return gdb, nil
}

func (s *Store) Ping(ctx context.Context) error {
	gdb, err := s.Get(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	gdb := s.db.Swap(nil)
	if gdb == nil {
		return
	}
	closeAll(gdb, s.pool)
	s.pool = nil
	log.Debugln("db store closed")
}

// Static wraps an already opened handle, used by the importer transaction
// and tests.
func Static(gdb *gorm.DB) Conn {
	return staticConn{db: gdb}
}

type staticConn struct {
	db *gorm.DB
}

func (c staticConn) Get(_ context.Context) (*gorm.DB, error) {
	return c.db, nil
}

// EngineFor picks the engine from the connection string and returns the
// DSN in the form its driver expects.
func EngineFor(dsn string) (Engine, string, error) {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)

	switch {
	case dsn == "":
		return "", "", errors.New("empty database url")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return EnginePostgres, dsn, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return EngineSQLite, dsn[len("sqlite://"):], nil
	case strings.HasPrefix(lower, "sqlite:"):
		return EngineSQLite, dsn[len("sqlite:"):], nil
	case strings.HasPrefix(lower, "file:"):
		return EngineSQLite, dsn, nil
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return EngineSQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database url: %q", redact(dsn))
	}
}

// Open connects without any laziness. Most callers want a Store.
func Open(ctx context.Context, opts Options) (*gorm.DB, *pgxpool.Pool, error) {
	engine, dsn, err := EngineFor(opts.DSN)
	if err != nil {
		return nil, nil, err
	}

	gormCfg := &gorm.Config{
		Logger:                                   newGormLogger(opts.LogLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	switch engine {
	case EnginePostgres:
		pool, err := NewDBPool(ctx, NewDBPoolParams{
			ConnString:     dsn,
			TracingEnabled: opts.TracingEnabled,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		sqlDB := stdlib.OpenDBFromPool(pool)
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("open gorm postgres: %w", err)
		}
		log.Debugf("connected to postgres [%s]", redact(dsn))
		return gdb, pool, nil

	default:
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, nil, err
		}
		gdb, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		// a single writer keeps sqlite away from "database is locked"
		sqlDB.SetMaxOpenConns(1)
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("ping sqlite: %w", err)
		}
		log.Debugf("opened sqlite [%s]", dsn)
		return gdb, nil, nil
	}
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir %s: %w", dir, err)
	}
	return nil
}

func closeAll(gdb *gorm.DB, pool *pgxpool.Pool) {
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("close db: %s", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
}

func redact(dsn string) string {
	at := strings.LastIndexByte(dsn, '@')
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}

func newGormLogger(level string) logger.Interface {
	lvl := logger.Warn
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}

	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             300 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
