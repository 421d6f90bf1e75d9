// Package iostore implements store.Store on top of PostgreSQL and SQLite.
// Both keep records in the schools table and replace the whole table on
// every import.
package iostore

import (
	"context"
	"fmt"
	"time"

	"github.com/p1data/p1db/internal/iodb"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/schema"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/store"
)

// Open creates the store selected by cfg.Store.Driver. The PostgreSQL store
// expects the schema to exist, the SQLite store creates it.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath())
	case "postgres", "":
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return nil, err
		}
		return NewPostgres(op, cfg.Database.BatchSize), nil
	default:
		return nil, OpenError(cfg.Store.Driver, "",
			fmt.Errorf("unknown driver %q", cfg.Store.Driver))
	}
}

// rows converts records to table rows stamped with the same time.
func rows(records []school.Record) ([]schema.School, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res := make([]schema.School, len(records))
	for i, r := range records {
		row, err := schema.FromRecord(r, now)
		if err != nil {
			return nil, err
		}
		res[i] = row
	}
	return res, nil
}

// prepare sorts records and keeps the last one for every key, so both
// stores always receive a valid set.
func prepare(records []school.Record) []school.Record {
	res, _ := store.Dedupe(records)
	return res
}

// toRecord decodes a scanned row.
func toRecord(row schema.School) (school.Record, error) {
	res, err := row.ToRecord()
	if err != nil {
		return school.Record{}, DecodeError(row.Key, err)
	}
	return res, nil
}
