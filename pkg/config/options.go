package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk insert.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptPopulateSourceIDs sets the list of data source IDs to import.
// Empty slice means import all sources from sources.yaml.
// Runtime-only field - not in ToOptions().
func OptPopulateSourceIDs(ii []int) Option {
	return func(c *Config) {
		if len(ii) > 0 {
			c.Populate.SourceIDs = ii
		}
	}
}

// OptPopulateWithGeocoding switches geocoding of school addresses during
// import on or off.
// Uses pointer to distinguish between unset (nil) and false.
// Runtime-only field - not in ToOptions().
func OptPopulateWithGeocoding(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Populate.WithGeocoding = b
		}
	}
}

// OptStoreDriver sets the record store backend.
// Valid values: "postgres", "sqlite".
func OptStoreDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Store.Driver", s) {
			c.Store.Driver = s
		}
	}
}

// OptStoreSQLitePath sets the sqlite database file.
func OptStoreSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Store.SQLitePath = s
		}
	}
}

// OptServerPort sets the port of the REST API.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerMode sets the gin mode.
// Valid values: "release", "debug", "test".
func OptServerMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Server.Mode", s) {
			c.Server.Mode = s
		}
	}
}

// OptServerWithPprof enables profiling endpoints.
func OptServerWithPprof(b bool) Option {
	return func(c *Config) {
		c.Server.WithPprof = b
	}
}

// OptServicesGeocodeURL sets the geocoding endpoint.
func OptServicesGeocodeURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Services Geocode URL", s) {
			c.Services.GeocodeURL = s
		}
	}
}

// OptServicesRegistryURL sets the school registry endpoint.
func OptServicesRegistryURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Services Registry URL", s) {
			c.Services.RegistryURL = s
		}
	}
}

// OptServicesRegistryResourceID sets the registry dataset ID.
func OptServicesRegistryResourceID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Services Registry Resource ID", s) {
			c.Services.RegistryResourceID = s
		}
	}
}

// OptServicesStrategyURL sets the chat completions endpoint.
func OptServicesStrategyURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Services Strategy URL", s) {
			c.Services.StrategyURL = s
		}
	}
}

// OptServicesStrategyModel sets the model used for strategies.
func OptServicesStrategyModel(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Services Strategy Model", s) {
			c.Services.StrategyModel = s
		}
	}
}

// OptServicesStrategyAPIKey sets the key of the strategy service.
func OptServicesStrategyAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Services Strategy API Key", s) {
			c.Services.StrategyAPIKey = s
		}
	}
}

// OptServicesTimeout sets the timeout of external requests in seconds.
func OptServicesTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Services Timeout", i) {
			c.Services.Timeout = i
		}
	}
}

// OptServicesCacheTTL sets for how many minutes external answers are
// cached.
func OptServicesCacheTTL(i int) Option {
	return func(c *Config) {
		if isValidInt("Services Cache TTL", i) {
			c.Services.CacheTTL = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
