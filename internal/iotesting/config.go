// Package iotesting provides shared test utilities for p1db tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/p1data/p1db/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "p1db_test"
)

// GetTestConfig returns a configuration suitable for tests. Database
// credentials are taken from P1DB_DATABASE_* variables when they are set,
// the database name is always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("P1DB_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("P1DB_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("P1DB_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("P1DB_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// GetSQLiteConfig returns a test configuration that keeps records in a
// sqlite file inside a temporary home directory.
func GetSQLiteConfig(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	if err := os.MkdirAll(config.CacheDir(home), 0755); err != nil {
		t.Fatalf("Failed to create cache dir: %v", err)
	}

	cfg := GetTestConfig()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptStoreDriver("sqlite"),
		config.OptStoreSQLitePath("test.sqlite"),
	})
	return cfg
}

// WriteFile writes content to dir/name and returns the path.
//
// Usage:
//
//	path := iotesting.WriteFile(t, t.TempDir(), "p1.json", `[...]`)
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteSourcesYAML writes sources.yaml into the config directory of
// homeDir and returns its path.
func WriteSourcesYAML(t *testing.T, homeDir, content string) string {
	t.Helper()

	dir := config.ConfigDir(homeDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	return WriteFile(t, dir, "sources.yaml", content)
}
