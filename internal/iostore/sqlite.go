package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/p1data/p1db/pkg/schema"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/store"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates a SQLite database at path. The path
// ":memory:" gives a private in-memory database.
func NewSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError("sqlite", path, err)
	}
	// one connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	if err = createTable(ctx, db); err != nil {
		db.Close()
		return nil, OpenError("sqlite", path, err)
	}
	return &sqliteStore{db: db}, nil
}

func createTable(ctx context.Context, db *sql.DB) error {
	model := schema.School{}
	ddl := strings.Replace(model.TableDDL(),
		"CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
	stmts := []string{ddl}
	for _, v := range model.IndexDDL() {
		stmts = append(stmts,
			strings.Replace(v, "CREATE INDEX", "CREATE INDEX IF NOT EXISTS", 1))
	}
	for _, v := range stmts {
		if _, err := db.ExecContext(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Replace(
	ctx context.Context,
	records []school.Record,
) (int, error) {
	records = prepare(records)
	rs, err := rows(records)
	if err != nil {
		return 0, ReplaceError(len(records), err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ReplaceError(len(records), err)
	}
	defer tx.Rollback()

	table := schema.School{}.TableName()
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, ReplaceError(len(records), err)
	}

	cols := schema.School{}.Columns()
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, ReplaceError(len(records), err)
	}
	defer stmt.Close()

	for _, row := range rs {
		if _, err = stmt.ExecContext(ctx, row.Values()...); err != nil {
			return 0, ReplaceError(len(records), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, ReplaceError(len(records), err)
	}
	return len(rs), nil
}

func (s *sqliteStore) query(
	ctx context.Context,
	where string,
	args ...any,
) ([]school.Record, error) {
	cols := schema.School{}.Columns()
	q := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY school_key",
		strings.Join(cols, ", "), schema.School{}.TableName(), where)
	rs, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rs.Close()

	var res []school.Record
	for rs.Next() {
		var row schema.School
		ptrs := row.Pointers()
		// updated_at is not part of a record, its text form is ignored
		var updated any
		for i, v := range cols {
			if v == "updated_at" {
				ptrs[i] = &updated
			}
		}
		if err = rs.Scan(ptrs...); err != nil {
			return nil, QueryError(err)
		}
		rec, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	if err = rs.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

func (s *sqliteStore) All(ctx context.Context) ([]school.Record, error) {
	return s.query(ctx, "")
}

func (s *sqliteStore) Get(
	ctx context.Context,
	key string,
) (school.Record, bool, error) {
	res, err := s.query(ctx, "WHERE school_key = ?", key)
	if err != nil || len(res) == 0 {
		return school.Record{}, false, err
	}
	return res[0], true, nil
}

func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var res int
	q := "SELECT count(*) FROM " + schema.School{}.TableName()
	if err := s.db.QueryRowContext(ctx, q).Scan(&res); err != nil {
		return 0, QueryError(err)
	}
	return res, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
