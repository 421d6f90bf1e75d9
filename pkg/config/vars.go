package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "p1db"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/p1db by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/p1db by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/p1db/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/p1db/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SourcesFilePath returns the full path to the sources.yaml file.
// Returns ~/.config/p1db/sources.yaml by default.
func SourcesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "sources.yaml")
}

// SQLitePath resolves the sqlite database file. Relative paths are placed
// in the cache directory.
func (c *Config) SQLitePath() string {
	p := c.Store.SQLitePath
	if filepath.IsAbs(p) || c.HomeDir == "" {
		return p
	}
	return filepath.Join(CacheDir(c.HomeDir), p)
}
