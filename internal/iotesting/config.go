// Package iotesting provides shared utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/edstats/rmpdb/pkg/config"
)

// TestDatabaseName is the database name used for all integration tests.
// This ensures tests never accidentally run against production databases.
const TestDatabaseName = "rmpdb_test"

// GetTestConfig returns a configuration suitable for integration tests:
// defaults overridden by RMPDB_DATABASE_* environment variables, with the
// database name always forced to TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test in short mode")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if host := os.Getenv("RMPDB_DATABASE_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if port := os.Getenv("RMPDB_DATABASE_PORT"); port != "" {
		if i, err := strconv.Atoi(port); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if user := os.Getenv("RMPDB_DATABASE_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("RMPDB_DATABASE_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}
	cfg.Update(opts)

	// Always use the test database for safety.
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
