package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgreSQL error codes the store distinguishes.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

var (
	// ErrNotFound is returned when a scoped lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write is blocked by referencing rows.
	ErrConflict = errors.New("referenced by dependent rows")
	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("already exists")
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an already opened connection pool
func NewStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks the connection pool
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repo returns a repository running outside of any transaction
func (s *Store) Repo() *Repo {
	return &Repo{q: s.db}
}

// InTx runs fn inside one transaction. It commits when fn returns nil and rolls back
// on error or panic. There is no nesting: fn must not call InTx itself.
func (s *Store) InTx(ctx context.Context, fn func(r *Repo) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Repo{q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return nil
}

// Repo holds the per-entity SQL. Every tenant-scoped method takes the tenant schema by value.
type Repo struct {
	q Querier
}

// classify maps driver errors onto the store's sentinel errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		}
	}
	return err
}

func (r *Repo) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return classify(r.q.GetContext(ctx, dest, query, args...))
}

func (r *Repo) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return classify(r.q.SelectContext(ctx, dest, query, args...))
}

// exec runs a write and reports ErrNotFound when it touched no row.
func (r *Repo) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
