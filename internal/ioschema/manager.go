// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/db"
	"github.com/p1data/p1db/pkg/lifecycle"
	"github.com/p1data/p1db/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using
// GORM AutoMigrate. Also applies "C" collation on school
// keys so that they sort byte-wise like the in-memory store.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := m.gormDB()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return m.setCollation(ctx)
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := m.gormDB()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	return nil
}

func (m *manager) gormDB() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)
	res, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return res, nil
}

// collated are varchar columns that need "C" collation.
var collated = []columnDef{
	{"schools", "school_key", 255},
	{"schools", "name", 255},
}

type columnDef struct {
	table, column string
	varchar       int
}

// setCollation sets "C" collation on collated columns.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	qStr := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	for _, col := range collated {
		q := formatCollationSQL(qStr, col.table,
			col.column, col.varchar)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}

	return nil
}
