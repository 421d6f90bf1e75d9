package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, SourceIDs, WithGeocoding).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Store.Driver
	if s != "" {
		res = append(res, OptStoreDriver(s))
	}
	s = c.Store.SQLitePath
	if s != "" {
		res = append(res, OptStoreSQLitePath(s))
	}

	i = c.Server.Port
	if i > 0 {
		res = append(res, OptServerPort(i))
	}
	s = c.Server.Mode
	if s != "" {
		res = append(res, OptServerMode(s))
	}
	res = append(res, OptServerWithPprof(c.Server.WithPprof))

	s = c.Services.GeocodeURL
	if s != "" {
		res = append(res, OptServicesGeocodeURL(s))
	}
	s = c.Services.RegistryURL
	if s != "" {
		res = append(res, OptServicesRegistryURL(s))
	}
	s = c.Services.RegistryResourceID
	if s != "" {
		res = append(res, OptServicesRegistryResourceID(s))
	}
	s = c.Services.StrategyURL
	if s != "" {
		res = append(res, OptServicesStrategyURL(s))
	}
	s = c.Services.StrategyModel
	if s != "" {
		res = append(res, OptServicesStrategyModel(s))
	}
	s = c.Services.StrategyAPIKey
	if s != "" {
		res = append(res, OptServicesStrategyAPIKey(s))
	}
	i = c.Services.Timeout
	if i > 0 {
		res = append(res, OptServicesTimeout(i))
	}
	i = c.Services.CacheTTL
	if i > 0 {
		res = append(res, OptServicesCacheTTL(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidURL(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	u, err := url.Parse(s)
	res := err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring %s", name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
		"Store.Driver":    {"postgres": s, "sqlite": s},
		"Server.Mode":     {"release": s, "debug": s, "test": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			name, val, strings.Join(lines, "\n"),
		)
		return false
	}
}
