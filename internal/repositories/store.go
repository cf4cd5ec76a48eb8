package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/songbook/internal/shared"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a lookup, update or delete matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrForeignKey is returned when the store rejects a write that breaks a foreign key.
	ErrForeignKey = errors.New("foreign key constraint violated")
	// ErrUnique is returned when the store rejects a write that duplicates a unique column.
	ErrUnique = errors.New("unique constraint violated")
	// ErrMissingAfterWrite is returned when a row cannot be re-read right after it was inserted.
	ErrMissingAfterWrite = errors.New("record missing after write")
)

// postgres SQLSTATE codes
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// Store is the query-execution helper shared by every repository.
//
// It owns no connection of its own: the [sql.DB] is constructed once at startup and injected.
// Queries are written with "?" placeholders and rebound for the configured [shared.Dialect].
type Store struct {
	db      *sql.DB
	dialect shared.Dialect
}

// NewStore wraps db for the given dialect.
func NewStore(db *sql.DB, dialect shared.Dialect) *Store {
	if dialect == "" {
		dialect = shared.DialectSQLite
	}
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect queries are rebound for.
func (s *Store) Dialect() shared.Dialect { return s.dialect }

// Lower wraps expr in the dialect's Unicode-aware lowercase function.
func (s *Store) Lower(expr string) string {
	if s.dialect == shared.DialectSQLite {
		return shared.UnicodeLower + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// QueryRow runs a query expected to return at most one row.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// Query runs a query returning rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// Exec runs a statement and returns the number of affected rows.
// Constraint failures are reported as [ErrForeignKey] or [ErrUnique].
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return 0, classify(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Insert runs an INSERT statement and returns the store-assigned id.
// Both supported dialects accept "RETURNING id", so the clause is appended here.
func (s *Store) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	query = strings.TrimRight(strings.TrimSpace(query), ";") + " RETURNING id"

	var id int64
	if err := s.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// classify maps driver constraint errors onto the package sentinels, keeping the driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrUnique, err)
		case sqlite3.ErrConstraintTrigger:
			// RESTRICT actions report through the trigger code.
			if strings.Contains(se.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: %w", ErrForeignKey, err)
			}
		}
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		switch string(pe.Code) {
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case pqUniqueViolation:
			return fmt.Errorf("%w: %w", ErrUnique, err)
		}
	}

	return err
}

// notFound converts [sql.ErrNoRows] into [ErrNotFound] for the named entity.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, entity, id)
	}
	return fmt.Errorf("failed to scan %s: %w", entity, err)
}

// escapeLike escapes LIKE wildcards so user input matches literally with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
