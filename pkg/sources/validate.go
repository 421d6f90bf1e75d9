package sources

import (
	"fmt"
	"slices"

	"github.com/p1data/p1db/pkg/reconcile"
)

// Validate checks the configuration for errors and applies defaults.
// Sources are sorted by ID.
func (c *SourcesConfig) Validate() error {
	if len(c.DataSources) == 0 {
		return fmt.Errorf("no data sources specified in configuration")
	}

	if c.Year == 0 {
		c.Year = reconcile.DefaultYear
		c.Warnings = append(c.Warnings, ValidationWarning{
			Field:      "year",
			Message:    fmt.Sprintf("year is not set, using %d", c.Year),
			Suggestion: "Add 'year: <YYYY>' to sources.yaml",
		})
	}

	seen := make(map[int]struct{})
	for i := range c.DataSources {
		warnings, err := c.DataSources[i].Validate(i + 1)
		if err != nil {
			return fmt.Errorf("data source %d: %w", i+1, err)
		}
		id := c.DataSources[i].ID
		if _, ok := seen[id]; ok {
			return fmt.Errorf("data source %d: duplicate id %d", i+1, id)
		}
		seen[id] = struct{}{}
		c.Warnings = append(c.Warnings, warnings...)
	}

	slices.SortStableFunc(c.DataSources, func(a, b DataSourceConfig) int {
		return a.ID - b.ID
	})
	return nil
}

// Validate checks a single data source configuration for data structure validity.
// File system validation (file existence) is deferred to runtime (I/O layer).
// Returns a slice of warnings (non-fatal issues) and an error (fatal issues).
func (d *DataSourceConfig) Validate(index int) ([]ValidationWarning, error) {
	var warnings []ValidationWarning
	if d.ID <= 0 {
		return nil, fmt.Errorf("id is required and must be positive")
	}

	switch {
	case d.Registry && d.Path != "":
		return nil, fmt.Errorf("path and registry cannot be used together")
	case !d.Registry && d.Path == "":
		return nil, fmt.Errorf("path to a JSON file or 'registry: true' is required")
	}

	if d.Registry && d.Shape != "" && d.Shape != reconcile.ShapeRegistry.String() {
		warnings = append(warnings, ValidationWarning{
			DataSourceID: d.ID,
			Field:        "shape",
			Message:      fmt.Sprintf("shape '%s' is ignored for registry sources", d.Shape),
			Suggestion:   "Remove 'shape' from the registry source",
		})
		d.Shape = ""
	}

	if _, err := d.ParsedShape(); err != nil {
		return nil, err
	}

	return warnings, nil
}
