// Package iosources reads sources.yaml and checks that the listed files
// exist.
package iosources

import (
	"fmt"
	"os"

	"github.com/p1data/p1db/internal/iofs"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/sources"
	"gopkg.in/yaml.v3"
)

type iosources struct {
	cfg *config.Config
}

func New(cfg *config.Config) sources.Sources {
	res := iosources{cfg: cfg}
	return &res
}

func (s *iosources) Load() (*sources.SourcesConfig, error) {
	sourcesPath := config.SourcesFilePath(s.cfg.HomeDir)
	sourcesConfig, err := loadSourcesConfig(sourcesPath, s.cfg.HomeDir)
	if err != nil {
		return nil, SourcesConfigError(sourcesPath, err)
	}
	return sourcesConfig, nil
}

// loadSourcesConfig parses and validates a sources file. Paths of file
// sources get their ~ expanded against homeDir and must point to existing
// files.
func loadSourcesConfig(
	path, homeDir string,
) (*sources.SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var res sources.SourcesConfig
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if err = res.Validate(); err != nil {
		return nil, err
	}

	for i := range res.DataSources {
		ds := &res.DataSources[i]
		if ds.Registry {
			continue
		}
		ds.Path = iofs.ExpandHome(ds.Path, homeDir)
		info, err := os.Stat(ds.Path)
		if err != nil {
			return nil, SourceFileNotFoundError(ds.ID, ds.Path, err)
		}
		if info.IsDir() {
			return nil, SourceFileNotFoundError(
				ds.ID, ds.Path, fmt.Errorf("%s is a directory", ds.Path),
			)
		}
	}

	return &res, nil
}
