package sqlidentity

import (
	"context"
	"database/sql"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/joeshaw/envdecode"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultPoolSize bounds the store's connection pool when the builder is
// not told otherwise. Session traffic is short single-row statements; a
// small pool goes a long way.
const DefaultPoolSize = 3

var headerNameRe = regexp.MustCompile(`^[!#$%&'*+\-.^_` + "`" + `|~0-9A-Za-z]+$`)

// Builder constructs a session backend from a connection URI. Set DSN, then
// call the terminal for the engine the URI belongs to: Sqlite, Postgres, or
// MySQL. Every terminal validates the configuration and reaches for the
// database before returning, so a backend you hold is one that works.
type Builder struct {
	// DSN is the engine connection URI. Required.
	DSN string `env:"IDENTITY_DSN"`

	// PoolSize bounds concurrent store work. Defaults to DefaultPoolSize.
	PoolSize int `env:"IDENTITY_POOL_SIZE"`

	// HeaderName is the response header tokens are written to. Defaults
	// to DefaultHeaderName.
	HeaderName string `env:"IDENTITY_HEADER"`

	// ContextKey overrides the middleware locals key.
	ContextKey string `env:"IDENTITY_CONTEXT_KEY"`

	Logger Logger
}

// NewBuilderFromEnv populates a Builder from the IDENTITY_* environment
// variables named in the field tags. Variables that are unset leave the
// usual defaults in place; the terminals still validate before opening
// anything.
func NewBuilderFromEnv() (Builder, error) {
	var b Builder
	if err := envdecode.Decode(&b); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return b, errors.Wrap(err, errors.CategoryBadInput, "unable to read identity environment").
			WithTextCode(TextCodeBadConfig).
			WithCode(errors.CodeBadRequest)
	}
	return b, nil
}

// Validate will validate the builder configuration
func (b Builder) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&b,
			validation.Field(&b.DSN, validation.Required),
			validation.Field(&b.PoolSize, validation.Min(0), validation.Max(512)),
			validation.Field(&b.HeaderName, validation.Match(headerNameRe)),
		)
	}, "Invalid session backend configuration")
}

// Sqlite opens (or creates) a SQLite backend for the configured DSN.
func (b Builder) Sqlite(ctx context.Context) (*Backend, error) {
	sqldb, err := b.open(sqliteshim.ShimName)
	if err != nil {
		return nil, err
	}
	return b.backend(ctx, bun.NewDB(sqldb, sqlitedialect.New()))
}

// Postgres connects a PostgreSQL backend through the pgx driver.
func (b Builder) Postgres(ctx context.Context) (*Backend, error) {
	sqldb, err := b.open("pgx")
	if err != nil {
		return nil, err
	}
	return b.backend(ctx, bun.NewDB(sqldb, pgdialect.New()))
}

// MySQL connects a MySQL backend.
func (b Builder) MySQL(ctx context.Context) (*Backend, error) {
	sqldb, err := b.open("mysql")
	if err != nil {
		return nil, err
	}
	return b.backend(ctx, bun.NewDB(sqldb, mysqldialect.New()))
}

func (b Builder) open(driver string) (*sql.DB, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driver, b.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to open session store").
			WithTextCode(TextCodeStoreUnreachable).
			WithCode(errors.CodeInternal)
	}

	return sqldb, nil
}

func (b Builder) backend(ctx context.Context, db *bun.DB) (*Backend, error) {
	poolSize := b.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	// the pool is the concurrency bound: each request borrows a
	// connection for its store work and blocks only itself
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to reach session store").
			WithTextCode(TextCodeStoreUnreachable).
			WithCode(errors.CodeInternal)
	}

	logger := b.Logger
	if logger == nil {
		logger = defLogger{}
	}

	return &Backend{
		db:         db,
		sessions:   NewSessionsRepository(db, WithSessionsLogger(logger)),
		headerName: b.HeaderName,
		contextKey: b.ContextKey,
		logger:     logger,
	}, nil
}

// Backend couples a live engine connection with the session repository
// bound to it.
type Backend struct {
	db         *bun.DB
	sessions   Sessions
	headerName string
	contextKey string
	logger     Logger
}

// Sessions returns the session repository bound to this backend.
func (b *Backend) Sessions() Sessions {
	return b.sessions
}

// DB exposes the underlying bun handle, e.g. for schema bootstrap or seeds.
func (b *Backend) DB() *bun.DB {
	return b.db
}

// Middleware returns the identity middleware wired to this backend. An
// optional Config overrides everything except the store, which is always
// the backend's own.
func (b *Backend) Middleware(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	cfg.Store = b.sessions
	if cfg.HeaderName == "" {
		cfg.HeaderName = b.headerName
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = b.contextKey
	}
	if cfg.Logger == nil {
		cfg.Logger = b.logger
	}

	return New(cfg)
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}
