// Package config provides configuration management for p1db.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
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
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Store: driver, sqlite_path
//   - Server: port, mode, with_pprof
//   - Services: geocode_url, registry_url, registry_resource_id,
//     strategy_url, strategy_model, strategy_api_key, timeout, cache_ttl
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Populate.SourceIDs, Populate.WithGeocoding (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use P1DB_ prefix with underscores for nesting:
//
//	P1DB_DATABASE_HOST=localhost
//	P1DB_STORE_DRIVER=sqlite
//	P1DB_SERVER_PORT=8080
//	P1DB_SERVICES_STRATEGY_API_KEY=sk-...
//	P1DB_LOG_LEVEL=info
//
// See .envrc.example for complete list with defaults.
package config

import (
	"runtime"
)

// Config represents the complete p1db configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Store selects the backend that keeps school records.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Server contains settings of the REST API.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Services contains endpoints of external services.
	Services ServicesConfig `mapstructure:"services" yaml:"services"`

	// Populate contains settings specific to the populate command.
	Populate PopulateConfig `mapstructure:"populate" yaml:"populate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
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

	// BatchSize is the number of rows sent per bulk insert.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// StoreConfig selects the record store.
type StoreConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// SQLitePath is the database file used by the sqlite driver. A relative
	// path is resolved against the cache directory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	// Port the API listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// Mode is the gin mode: "release", "debug" or "test".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// WithPprof registers profiling endpoints under /debug/pprof.
	WithPprof bool `mapstructure:"with_pprof" yaml:"with_pprof"`
}

// ServicesConfig contains the external services used for enrichment and
// strategy generation.
type ServicesConfig struct {
	// GeocodeURL is the OneMap search endpoint.
	GeocodeURL string `mapstructure:"geocode_url" yaml:"geocode_url"`

	// RegistryURL is the data.gov.sg datastore search endpoint.
	RegistryURL string `mapstructure:"registry_url" yaml:"registry_url"`

	// RegistryResourceID is the dataset with general school information.
	RegistryResourceID string `mapstructure:"registry_resource_id" yaml:"registry_resource_id"`

	// StrategyURL is a chat completions endpoint.
	StrategyURL string `mapstructure:"strategy_url" yaml:"strategy_url"`

	// StrategyModel is the model name sent to StrategyURL.
	StrategyModel string `mapstructure:"strategy_model" yaml:"strategy_model"`

	// StrategyAPIKey authorizes strategy requests. Without it strategies
	// are generated from the offline template.
	StrategyAPIKey string `mapstructure:"strategy_api_key" yaml:"strategy_api_key"`

	// Timeout of a single external request in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// CacheTTL is how long geocoding and registry answers are kept, in
	// minutes.
	CacheTTL int `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// PopulateConfig contains settings specific to the populate command.
type PopulateConfig struct {
	// SourceIDs is the list of data source IDs to import.
	// Empty slice means import all sources from sources.yaml.
	SourceIDs []int `mapstructure:"source_ids" yaml:"source_ids"`

	// WithGeocoding enables geocoding of school addresses during import.
	// Uses pointer to distinguish between unset (nil) and false.
	WithGeocoding *bool `mapstructure:"with_geocoding" yaml:"with_geocoding"`
}

// GeocodingEnabled is true unless geocoding was switched off.
func (p PopulateConfig) GeocodingEnabled() bool {
	return p.WithGeocoding == nil || *p.WithGeocoding
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
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
			Database:  "p1db",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Store: StoreConfig{
			Driver:     "postgres",
			SQLitePath: "p1db.sqlite",
		},
		Server: ServerConfig{
			Port: 8080,
			Mode: "release",
		},
		Services: ServicesConfig{
			GeocodeURL:         "https://www.onemap.gov.sg/api/common/elastic/search",
			RegistryURL:        "https://data.gov.sg/api/action/datastore_search",
			RegistryResourceID: "d_688b934f82c1059ed0a6993d2a829089",
			StrategyURL:        "https://api.deepseek.com/v1/chat/completions",
			StrategyModel:      "deepseek-chat",
			Timeout:            60,
			CacheTTL:           24 * 60,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
