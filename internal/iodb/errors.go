package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d</em>

Check that PostgreSQL is running and that database <em>%s</em> is
accessible for user <em>%s</em>. Settings live in
~/.config/p1db/config.yaml or in P1DB_DATABASE_* variables.
To work without PostgreSQL set <em>store.driver: sqlite</em>.
Database: %s`
	vars := []any{host, port, database, user, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			fn, host, port, database, err),
	}
}

func TableCheckError(err error) error {
	msg := "Cannot check database tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot check tables: %w", fn, err),
	}
}

func EmptyDatabaseError(host, database string) error {
	msg := "Database at <em>%s</em> named <em>%s</em> has no tables, " +
		"run <em>p1db create</em> first"
	vars := []any{host, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: database %s is empty", fn, database),
	}
}

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: connection pool is nil", fn),
	}
}

func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot check table %s: %w",
			fn, table, err),
	}
}

func QueryTablesError(err error) error {
	msg := "Cannot list database tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot query tables: %w", fn, err),
	}
}

func ScanTableError(err error) error {
	msg := "Cannot read table names"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot scan table name: %w", fn, err),
	}
}

func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot drop table %s: %w",
			fn, table, err),
	}
}
