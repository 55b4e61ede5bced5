package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// parseBoolEnv reads an environment variable and parses it as a boolean.
// Returns the parsed value and whether the variable was present. Accepts
// the strconv forms plus yes/no and on/off.
func parseBoolEnv(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// Config holds all database configuration options
type Config struct {
	// Connection settings
	Path                  string        `json:"path"`                  // database file path
	MaxConnections        int           `json:"maxConnections"`        // maximum number of open connections
	MaxIdleConns          int           `json:"maxIdleConns"`          // maximum number of idle connections
	ConnMaxLifetime       time.Duration `json:"connMaxLifetime"`       // maximum connection lifetime
	ConnMaxIdleTime       time.Duration `json:"connMaxIdleTime"`       // maximum connection idle time
	ForceSingleConnection bool          `json:"forceSingleConnection"` // force single connection mode

	// Migration settings
	AutoMigrate bool `json:"autoMigrate"` // run embedded migrations on startup

	// SQLite pragmas
	JournalMode     string `json:"journalMode"`     // WAL, DELETE, MEMORY, ...
	SynchronousMode string `json:"synchronousMode"` // FULL, NORMAL, OFF
	CacheSize       int    `json:"cacheSize"`       // cache size in KB
	BusyTimeout     int    `json:"busyTimeout"`     // busy timeout in milliseconds
	ForeignKeys     bool   `json:"foreignKeys"`     // enforce foreign key constraints

	// Runtime settings
	Environment string `json:"environment"` // development, test, production
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path:            "growth.db",
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 24 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,

		AutoMigrate: true,

		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       2000,
		BusyTimeout:     30000,
		ForeignKeys:     true,

		Environment: "production",
	}
}

// DevelopmentConfig returns a configuration for local development
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Path = "growth_dev.db"
	config.Environment = "development"
	return config
}

// TestConfig returns an in-memory configuration for tests
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = ":memory:"
	config.Environment = "test"
	// WAL is meaningless for in-memory databases
	config.JournalMode = "MEMORY"
	config.SynchronousMode = "OFF"
	config.CacheSize = 1000
	config.BusyTimeout = 1000
	return config
}

// LoadFromEnvironment overrides configuration from GROWTH_DB_* variables
func (c *Config) LoadFromEnvironment() error {
	if path := os.Getenv("GROWTH_DB_PATH"); path != "" {
		c.Path = path
	}

	if maxConns := os.Getenv("GROWTH_DB_MAX_CONNECTIONS"); maxConns != "" {
		if val, err := strconv.Atoi(maxConns); err == nil && val > 0 {
			c.MaxConnections = val
		}
	}

	if maxIdle := os.Getenv("GROWTH_DB_MAX_IDLE_CONNECTIONS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil && val > 0 {
			c.MaxIdleConns = val
		}
	}

	if lifetime := os.Getenv("GROWTH_DB_CONN_MAX_LIFETIME"); lifetime != "" {
		if val, err := time.ParseDuration(lifetime); err == nil {
			c.ConnMaxLifetime = val
		}
	}

	if autoMigrate, present := parseBoolEnv("GROWTH_DB_AUTO_MIGRATE"); present {
		c.AutoMigrate = autoMigrate
	}

	if journalMode := os.Getenv("GROWTH_DB_JOURNAL_MODE"); journalMode != "" {
		c.JournalMode = journalMode
	}

	if syncMode := os.Getenv("GROWTH_DB_SYNCHRONOUS_MODE"); syncMode != "" {
		c.SynchronousMode = syncMode
	}

	if busyTimeout := os.Getenv("GROWTH_DB_BUSY_TIMEOUT"); busyTimeout != "" {
		if val, err := strconv.Atoi(busyTimeout); err == nil && val >= 0 {
			c.BusyTimeout = val
		}
	}

	if foreignKeys, present := parseBoolEnv("GROWTH_DB_FOREIGN_KEYS"); present {
		c.ForeignKeys = foreignKeys
	}

	if forceSingle, present := parseBoolEnv("GROWTH_DB_FORCE_SINGLE_CONNECTION"); present {
		c.ForceSingleConnection = forceSingle
	}

	if environment := os.Getenv("GROWTH_ENVIRONMENT"); environment != "" {
		c.Environment = environment
	}

	return nil
}

// Validate validates the configuration parameters
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	// For file-based databases, ensure the directory exists
	if !c.IsInMemory() {
		dir := filepath.Dir(c.Path)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create database directory %s: %w", dir, err)
				}
			}
		}
	}

	if c.MaxConnections <= 0 {
		return fmt.Errorf("maxConnections must be positive, got %d", c.MaxConnections)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("maxIdleConns cannot be negative, got %d", c.MaxIdleConns)
	}
	if c.MaxIdleConns > c.MaxConnections {
		return fmt.Errorf("maxIdleConns (%d) cannot be greater than maxConnections (%d)", c.MaxIdleConns, c.MaxConnections)
	}
	if c.ConnMaxLifetime < 0 {
		return fmt.Errorf("connMaxLifetime cannot be negative, got %v", c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime < 0 {
		return fmt.Errorf("connMaxIdleTime cannot be negative, got %v", c.ConnMaxIdleTime)
	}

	validJournalModes := []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	journalModeValid := false
	for _, mode := range validJournalModes {
		if strings.EqualFold(c.JournalMode, mode) {
			journalModeValid = true
			break
		}
	}
	if !journalModeValid {
		return fmt.Errorf("invalid journalMode: %s", c.JournalMode)
	}
	if c.IsInMemory() && strings.EqualFold(c.JournalMode, "WAL") {
		return fmt.Errorf("journalMode cannot be WAL when using in-memory database")
	}

	switch c.SynchronousMode {
	case "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("invalid synchronousMode: %s", c.SynchronousMode)
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("cacheSize must be positive, got %d", c.CacheSize)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busyTimeout cannot be negative, got %d", c.BusyTimeout)
	}

	switch c.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	return nil
}

// GetConnectionString builds the SQLite connection string with all options
func (c *Config) GetConnectionString() string {
	values := url.Values{}

	if c.ForeignKeys {
		values.Set("_foreign_keys", "on")
	} else {
		values.Set("_foreign_keys", "off")
	}
	values.Set("_journal_mode", c.JournalMode)
	values.Set("_synchronous", c.SynchronousMode)
	// Negative cache size so SQLite interprets it as KB
	values.Set("_cache_size", fmt.Sprintf("%d", -c.CacheSize))
	values.Set("_busy_timeout", fmt.Sprintf("%d", c.BusyTimeout))

	// Escape only the characters that would break query string parsing
	path := c.Path
	if strings.ContainsAny(path, "?&") {
		path = strings.ReplaceAll(path, "?", "%3F")
		path = strings.ReplaceAll(path, "&", "%26")
	}

	return path + "?" + values.Encode()
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsInMemory returns true if the database uses in-memory storage
func (c *Config) IsInMemory() bool {
	return c.Path == ":memory:"
}

// IsTest returns true if the environment is set to test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// ConfigForEnvironment returns a configuration for the given environment
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		config := DefaultConfig()
		config.Path = filepath.Join(".", "growth.db")
		return config
	}
}
