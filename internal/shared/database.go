package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// sqliteDriver is go-sqlite3 with [UnicodeLower] registered on every connection.
const sqliteDriver = "sqlite3_songbook"

// UnicodeLower is the SQLite function that lowercases with Unicode rules. The builtin LOWER only folds ASCII.
const UnicodeLower = "unicode_lower"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(UnicodeLower, strings.ToLower, true)
		},
	})
}

// Dialect names a supported SQL driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name onto a [Dialect].
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, driver)
	}
}

// Rebind rewrites "?" placeholders into the positional "$n" form postgres expects.
// Queries for other dialects are returned unchanged.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewDatabase opens a connection for the given dialect and data source name and verifies it with a ping.
//
// For SQLite the dsn is a file path, or ":memory:" for an in-memory database. Foreign key enforcement is always enabled.
// In-memory databases are pinned to a single connection so every query sees the same schema.
func NewDatabase(dialect Dialect, dsn string) (*sql.DB, error) {
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	driver := string(dialect)
	if dialect == DialectSQLite {
		driver = sqliteDriver
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenDatabase opens the database described by cfg and applies its pool settings.
func OpenDatabase(cfg DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.Path
	if dialect == DialectPostgres {
		dsn = PostgresDSN(cfg)
	}

	db, err := NewDatabase(dialect, dsn)
	if err != nil {
		return nil, "", err
	}

	switch {
	case dialect == DialectPostgres:
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)
	case !strings.Contains(dsn, ":memory:"):
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	return db, dialect, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// Non-positive values leave the driver defaults in place.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

// PostgresDSN builds a lib/pq connection URL from the database section of the config.
func PostgresDSN(cfg DatabaseConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{sslmode}}.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
