package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Security SecurityConfig `toml:"security"`
	Search   SearchConfig   `toml:"search"`
}

// DatabaseConfig contains database connection settings.
//
// Path is used by the sqlite3 driver; the host/port/name/user fields by postgres.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Name         string `toml:"name"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"sslmode"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
//
// RateLimit is in requests per second across all clients; zero disables limiting.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// SecurityConfig contains password hashing settings.
type SecurityConfig struct {
	BcryptCost int `toml:"bcrypt_cost"`
}

// SearchConfig contains Typesense settings for the optional song search index.
type SearchConfig struct {
	Enabled   bool    `toml:"enabled"`
	Host      string  `toml:"host"`
	APIKey    string  `toml:"api_key"`
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// Addr returns the host:port the HTTP server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from the given .env files (default ".env") into the process environment.
// Missing files are ignored; variables already set are never overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values with any of the supported environment variables found by lookup.
//
// Pass [os.LookupEnv] in production; tests supply a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	str("DB_DRIVER", &c.Database.Driver)
	str("DB_PATH", &c.Database.Path)
	str("DB_HOST", &c.Database.Host)
	str("DB_NAME", &c.Database.Name)
	str("DB_USER", &c.Database.User)
	str("DB_PASS", &c.Database.Password)
	str("DB_SSLMODE", &c.Database.SSLMode)
	if err := num("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := num("PORT", &c.Server.Port); err != nil {
		return err
	}

	str("TYPESENSE_HOST", &c.Search.Host)
	str("TYPESENSE_API_KEY", &c.Search.APIKey)
	if v, ok := lookup("TYPESENSE_HOST"); ok && v != "" && c.Search.APIKey != "" {
		c.Search.Enabled = true
	}

	return nil
}
