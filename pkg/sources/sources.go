// Package sources provides configuration and validation for P1 data
// sources.
//
// This package defines the schema for sources.yaml, which lists the JSON
// files (scraped, curated or registry shaped) and registry pulls that are
// combined into the school records. It handles validation and filtering of
// sources. File system checks belong to the I/O layer.
package sources

import (
	"context"

	"github.com/p1data/p1db/pkg/reconcile"
)

type Sources interface {
	Load() (*SourcesConfig, error)
}

// SourcesConfig represents the complete sources.yaml configuration file.
type SourcesConfig struct {
	// Year is the registration exercise the sources describe. Records
	// without their own year get this one.
	Year int `yaml:"year"`

	// DataSources is the list of data sources to import.
	DataSources []DataSourceConfig `yaml:"sources"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DataSourceID int    // ID of the data source
	Field        string // Field name that has the issue
	Message      string // Description of the issue
	Suggestion   string // How to fix it
}

// DataSourceConfig represents configuration for a single data source.
//
// A source is either a JSON file (Path) or a pull from the government
// school registry (Registry). Sources are applied in ID order: statistics
// from later sources replace earlier ones for the same school, registry
// shaped sources only add contact and location data.
type DataSourceConfig struct {
	// ID identifies the data source and sets its order.
	ID int `yaml:"id"`

	// Title is a human readable description.
	Title string `yaml:"title,omitempty"`

	// Path is a JSON file. A leading ~ is expanded to the home directory.
	Path string `yaml:"path,omitempty"`

	// Shape is "scraped", "curated", "registry" or "auto" (default), where
	// auto detects the shape per record.
	Shape string `yaml:"shape,omitempty"`

	// Registry pulls registry shaped records from the configured registry
	// service instead of reading a file.
	Registry bool `yaml:"registry,omitempty"`
}

// ParsedShape returns the configured shape. Registry sources are always
// registry shaped.
func (d DataSourceConfig) ParsedShape() (reconcile.Shape, error) {
	if d.Registry {
		return reconcile.ShapeRegistry, nil
	}
	return reconcile.ParseShape(d.Shape)
}

// Label returns the title of a source, or its path when it has no title.
func (d DataSourceConfig) Label() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Registry:
		return "school registry"
	default:
		return d.Path
	}
}

// Registry supplies registry shaped records of all primary schools.
type Registry interface {
	Schools(ctx context.Context) ([]reconcile.Source, error)
}
