package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/p1data/p1db/pkg/db"
	"github.com/p1data/p1db/pkg/schema"
	"github.com/p1data/p1db/pkg/school"
	"github.com/p1data/p1db/pkg/store"
	"gorm.io/datatypes"
)

type pgStore struct {
	op        db.Operator
	batchSize int
}

// NewPostgres creates a store on a connected operator. The store owns the
// operator and closes it in Close.
func NewPostgres(op db.Operator, batchSize int) store.Store {
	if batchSize <= 0 {
		batchSize = 1_000
	}
	return &pgStore{op: op, batchSize: batchSize}
}

func (s *pgStore) table() string {
	return schema.School{}.TableName()
}

// Replace deletes all rows and copies records in batches, all in one
// transaction.
func (s *pgStore) Replace(
	ctx context.Context,
	records []school.Record,
) (int, error) {
	pool := s.op.Pool()
	if pool == nil {
		return 0, ReplaceError(len(records), errors.New("not connected"))
	}

	records = prepare(records)
	rs, err := rows(records)
	if err != nil {
		return 0, ReplaceError(len(records), err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, ReplaceError(len(records), err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "DELETE FROM "+s.table()); err != nil {
		return 0, ReplaceError(len(records), err)
	}

	columns := schema.School{}.Columns()
	var total int
	for i := 0; i < len(rs); i += s.batchSize {
		end := min(i+s.batchSize, len(rs))
		batch := make([][]any, 0, end-i)
		for _, row := range rs[i:end] {
			batch = append(batch, pgValues(row))
		}

		count, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{s.table()},
			columns,
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return 0, ReplaceError(len(records), err)
		}
		total += int(count)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, ReplaceError(len(records), err)
	}
	return total, nil
}

// pgValues converts row values to types pgx encodes without
// driver.Valuer lookups.
func pgValues(row schema.School) []any {
	res := row.Values()
	for i, v := range res {
		switch val := v.(type) {
		case datatypes.JSON:
			res[i] = string(val)
		case sql.NullFloat64:
			if val.Valid {
				res[i] = val.Float64
			} else {
				res[i] = nil
			}
		}
	}
	return res
}

// selectColumns reads phases as text, which datatypes.JSON scans.
func selectColumns() string {
	cols := schema.School{}.Columns()
	for i, v := range cols {
		if v == "phases" {
			cols[i] = "phases::text"
		}
	}
	return strings.Join(cols, ", ")
}

func (s *pgStore) query(
	ctx context.Context,
	where string,
	args ...any,
) ([]school.Record, error) {
	pool := s.op.Pool()
	if pool == nil {
		return nil, QueryError(errors.New("not connected"))
	}

	q := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY school_key",
		selectColumns(), s.table(), where)
	rs, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rs.Close()

	var res []school.Record
	for rs.Next() {
		var row schema.School
		if err = rs.Scan(row.Pointers()...); err != nil {
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

func (s *pgStore) All(ctx context.Context) ([]school.Record, error) {
	return s.query(ctx, "")
}

func (s *pgStore) Get(
	ctx context.Context,
	key string,
) (school.Record, bool, error) {
	res, err := s.query(ctx, "WHERE school_key = $1", key)
	if err != nil || len(res) == 0 {
		return school.Record{}, false, err
	}
	return res[0], true, nil
}

func (s *pgStore) Count(ctx context.Context) (int, error) {
	pool := s.op.Pool()
	if pool == nil {
		return 0, QueryError(errors.New("not connected"))
	}

	var res int
	err := pool.QueryRow(ctx, "SELECT count(*) FROM "+s.table()).Scan(&res)
	if err != nil {
		return 0, QueryError(err)
	}
	return res, nil
}

func (s *pgStore) Close() error {
	return s.op.Close()
}
