// Package config provides configuration management for rmpdb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use RMPDB_ prefix with underscores for nesting:
//
//	RMPDB_DATABASE_HOST=localhost
//	RMPDB_DATABASE_PORT=5432
//	RMPDB_INGEST_REVIEWS_DIR=raw_data_rmp/teachers_comments
//	RMPDB_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete rmpdb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Ingest contains locations of the raw review tree and the
	// professor directory document.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for the department
	// directory walk. Default is the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows per batch for bulk inserts.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// IngestConfig describes the raw data inputs of the pipeline.
type IngestConfig struct {
	// ReviewsDir is the root of the review tree: one subdirectory per
	// department, each holding per-teacher JSON files.
	ReviewsDir string `mapstructure:"reviews_dir" yaml:"reviews_dir"`

	// ProfessorsFile is the path to the authoritative professor
	// directory document (one JSON object or a list of objects).
	ProfessorsFile string `mapstructure:"professors_file" yaml:"professors_file"`

	// ErrorLog is the path of the append-only CSV error log. Rows are
	// appended on every run, never overwritten.
	ErrorLog string `mapstructure:"error_log" yaml:"error_log"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "rmp",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Ingest: IngestConfig{
			ReviewsDir:     "raw_data_rmp/teachers_comments",
			ProfessorsFile: "raw_data_rmp/professor_list.json",
			ErrorLog:       "error_file.csv",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
