package shared

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestErrors(t *testing.T) {
	t.Run("Is matches by kind", func(t *testing.T) {
		err := Validation("name is required")
		if !errors.Is(err, ErrValidation) {
			t.Error("validation error should match ErrValidation")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("validation error should not match ErrNotFound")
		}
	})

	t.Run("KindOf through wrapping", func(t *testing.T) {
		err := fmt.Errorf("service: %w", Conflict("Email address is already registered"))
		if KindOf(err) != KindConflict {
			t.Errorf("expected KindConflict, got %v", KindOf(err))
		}
		if got := MessageOf(err, "fallback"); got != "Email address is already registered" {
			t.Errorf("MessageOf() = %q", got)
		}
	})

	t.Run("unclassified errors are internal", func(t *testing.T) {
		err := errors.New("disk on fire")
		if KindOf(err) != KindInternal {
			t.Errorf("expected KindInternal, got %v", KindOf(err))
		}
		if got := MessageOf(err, "fallback"); got != "fallback" {
			t.Errorf("MessageOf() = %q", got)
		}
	})

	t.Run("Internal keeps cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Internal(cause, "Failed to create artist")
		if !errors.Is(err, cause) {
			t.Error("Internal error should unwrap to its cause")
		}
		if !strings.Contains(err.Error(), "connection reset") {
			t.Errorf("Error() should include the cause, got %q", err.Error())
		}
	})

	t.Run("Kind String", func(t *testing.T) {
		tc := map[Kind]string{
			KindInternal:       "internal",
			KindValidation:     "validation",
			KindAuthentication: "authentication",
			KindNotFound:       "not found",
			KindConflict:       "conflict",
		}
		for k, want := range tc {
			if k.String() != want {
				t.Errorf("Kind(%d).String() = %s, want %s", k, k.String(), want)
			}
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("info should be filtered at error level, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("to file")
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected distinct uuids, got %s and %s", a, b)
		}
	})
}

func TestDatabase(t *testing.T) {
	t.Run("ParseDialect", func(t *testing.T) {
		tc := []struct {
			in      string
			want    Dialect
			wantErr bool
		}{
			{in: "", want: DialectSQLite},
			{in: "sqlite", want: DialectSQLite},
			{in: "postgres", want: DialectPostgres},
			{in: "PostgreSQL", want: DialectPostgres},
			{in: "mysql", wantErr: true},
		}
		for _, tt := range tc {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("ParseDialect(%q) expected ErrInvalidConfig, got %v", tt.in, err)
				}
				continue
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDialect(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		}
	})

	t.Run("Rebind", func(t *testing.T) {
		q := "SELECT * FROM songs WHERE title LIKE ? ESCAPE '\\' AND genre = ? AND note = '?'"
		got := DialectPostgres.Rebind(q)
		want := "SELECT * FROM songs WHERE title LIKE $1 ESCAPE '\\' AND genre = $2 AND note = '?'"
		if got != want {
			t.Errorf("Rebind() = %q, want %q", got, want)
		}

		if DialectSQLite.Rebind(q) != q {
			t.Error("sqlite queries should be unchanged")
		}
	})

	t.Run("PostgresDSN", func(t *testing.T) {
		dsn := PostgresDSN(DatabaseConfig{Host: "db", Port: 5433, Name: "music", User: "u", Password: "p@ss"})
		u, err := url.Parse(dsn)
		if err != nil {
			t.Fatalf("invalid dsn %q: %v", dsn, err)
		}
		if u.Host != "db:5433" || u.Path != "/music" {
			t.Errorf("unexpected dsn %q", dsn)
		}
		if pw, _ := u.User.Password(); pw != "p@ss" {
			t.Errorf("expected password to round trip, got %q", pw)
		}
		if u.Query().Get("sslmode") != "disable" {
			t.Errorf("expected sslmode=disable, got %q", u.Query().Get("sslmode"))
		}
	})

	t.Run("sqliteDSN", func(t *testing.T) {
		if got := sqliteDSN(":memory:"); got != ":memory:?_foreign_keys=on" {
			t.Errorf("sqliteDSN() = %q", got)
		}
		if got := sqliteDSN("file.db?cache=shared"); got != "file.db?cache=shared&_foreign_keys=on" {
			t.Errorf("sqliteDSN() = %q", got)
		}
	})

	t.Run("OpenDatabase sqlite", func(t *testing.T) {
		db, dialect, err := OpenDatabase(DatabaseConfig{Driver: "sqlite3", Path: ":memory:"})
		if err != nil {
			t.Fatalf("OpenDatabase() error = %v", err)
		}
		defer db.Close()
		if dialect != DialectSQLite {
			t.Errorf("expected sqlite dialect, got %s", dialect)
		}
	})

	t.Run("sqlite unicode lower", func(t *testing.T) {
		db, err := NewDatabase(DialectSQLite, ":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		tc := []struct{ in, want string }{
			{in: "Éclair", want: "éclair"},
			{in: "ÜBER", want: "über"},
			{in: "Queen", want: "queen"},
		}
		for _, tt := range tc {
			var got string
			if err := db.QueryRow("SELECT "+UnicodeLower+"(?)", tt.in).Scan(&got); err != nil {
				t.Fatalf("%s(%q) error = %v", UnicodeLower, tt.in, err)
			}
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", UnicodeLower, tt.in, got, tt.want)
			}
		}
	})
}
