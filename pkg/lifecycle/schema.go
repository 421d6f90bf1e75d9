// Package lifecycle defines the stages a p1db database goes through:
// schema creation, migration and population.
package lifecycle

import (
	"context"

	"github.com/p1data/p1db/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and migrations.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the initial database schema using GORM AutoMigrate.
	// Also applies collation settings for byte order sorting of school keys.
	// If tables already exist, behavior depends on user confirmation via DropAllTables.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version using GORM AutoMigrate.
	// GORM handles schema version tracking automatically.
	Migrate(ctx context.Context, cfg *config.Config) error
}
