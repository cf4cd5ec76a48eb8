package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Driver != "sqlite3" {
			t.Errorf("expected database driver sqlite3, got %s", config.Database.Driver)
		}

		if config.Database.Path != "./songbook.db" {
			t.Errorf("expected database path ./songbook.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Security.BcryptCost != 10 {
			t.Errorf("expected bcrypt cost 10, got %d", config.Security.BcryptCost)
		}

		if config.Search.Enabled {
			t.Error("search should be disabled by default")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
driver = "postgres"
host = "db.internal"
port = 5433
name = "catalog"
user = "app"
password = "secret"

[server]
host = "0.0.0.0"
port = 9000
rate_limit = 50

[search]
enabled = true
host = "http://typesense:8108"
api_key = "xyz"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Driver != "postgres" {
			t.Errorf("expected driver postgres, got %s", config.Database.Driver)
		}

		if config.Server.Port != 9000 {
			t.Errorf("expected server port 9000, got %d", config.Server.Port)
		}

		if config.Server.RateLimit != 50 {
			t.Errorf("expected rate limit 50, got %v", config.Server.RateLimit)
		}

		if config.Security.BcryptCost != 10 {
			t.Errorf("omitted keys should keep defaults, got bcrypt cost %d", config.Security.BcryptCost)
		}

		if !config.Search.Enabled || config.Search.APIKey != "xyz" {
			t.Errorf("expected search enabled with api key, got %+v", config.Search)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(envMap(map[string]string{
			"DB_DRIVER":         "postgres",
			"DB_HOST":           "pg",
			"DB_PORT":           "6543",
			"DB_NAME":           "music",
			"DB_USER":           "music_user",
			"DB_PASS":           "pw",
			"PORT":              "3001",
			"TYPESENSE_HOST":    "http://ts:8108",
			"TYPESENSE_API_KEY": "key",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Database.Driver != "postgres" || config.Database.Host != "pg" || config.Database.Port != 6543 {
			t.Errorf("database overrides not applied: %+v", config.Database)
		}
		if config.Database.Name != "music" || config.Database.User != "music_user" || config.Database.Password != "pw" {
			t.Errorf("database credentials not applied: %+v", config.Database)
		}
		if config.Server.Port != 3001 {
			t.Errorf("expected port 3001, got %d", config.Server.Port)
		}
		if !config.Search.Enabled {
			t.Error("search should be enabled when host and api key are set")
		}
	})

	t.Run("ApplyEnv invalid number", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(envMap(map[string]string{"DB_PORT": "five"}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv empty values ignored", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ApplyEnv(envMap(map[string]string{"DB_PATH": "", "PORT": ""})); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if config.Database.Path != "./songbook.db" || config.Server.Port != 8080 {
			t.Errorf("empty env values should not override: %+v %+v", config.Database, config.Server)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		if err := os.WriteFile(envPath, []byte("SONGBOOK_TEST_VALUE=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("SONGBOOK_TEST_VALUE") })

		if err := LoadEnv(envPath); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
		if got := os.Getenv("SONGBOOK_TEST_VALUE"); got != "from-dotenv" {
			t.Errorf("expected from-dotenv, got %q", got)
		}

		if err := LoadEnv(filepath.Join(tmpDir, "missing.env")); err != nil {
			t.Errorf("missing env file should be ignored, got %v", err)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		cfg := ServerConfig{Host: "0.0.0.0", Port: 8080}
		if got := cfg.Addr(); got != "0.0.0.0:8080" {
			t.Errorf("Addr() = %s", got)
		}
	})
}
