// Package iofs manages p1db files and directories: config, cache and log
// locations, default configuration files and JSON source files.
package iofs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/templates"
)

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), templates.ConfigYAML)
}

func EnsureSourcesFile(homeDir string) error {
	return ensureFile(config.SourcesFilePath(homeDir), templates.SourcesYAML)
}

// ensureFile writes content to path unless the file already exists.
func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return WriteDefaultFileError(path, err)
	}

	return nil
}

// ExpandHome replaces a leading ~ of path with homeDir.
func ExpandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(homeDir, rest)
	}
	return path
}

// ReadFile reads a whole file, wrapping failures into user-facing errors.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}
