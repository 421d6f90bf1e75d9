package lifecycle

import (
	"context"

	"github.com/p1data/p1db/pkg/config"
)

// Populator imports the configured sources into the record store.
type Populator interface {
	// Populate reads sources selected by cfg.Populate.SourceIDs (all when
	// empty), reconciles, scores and enriches the records and replaces the
	// content of the store with them.
	Populate(ctx context.Context, cfg *config.Config) (Report, error)
}

// Report summarizes an import.
type Report struct {
	// Sources is the number of sources that were read.
	Sources int

	// Records is the number of school records stored.
	Records int

	// Duplicates counts records that replaced an earlier record with the
	// same key.
	Duplicates int

	// Issues counts reconciliation issues, such as malformed phases.
	Issues int

	// Skipped counts source records that could not be used at all.
	Skipped int

	// Geocoded counts records that got coordinates during the import.
	Geocoded int
}
