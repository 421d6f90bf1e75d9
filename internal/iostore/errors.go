package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

func OpenError(driver, location string, err error) error {
	msg := "Cannot open <em>%s</em> store at <em>%s</em>"
	vars := []any{driver, location}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s store: %w",
			fn, driver, err),
	}
}

func ReplaceError(count int, err error) error {
	msg := "Cannot save <em>%d</em> school records, previous records are kept"
	vars := []any{count}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReplaceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot replace records: %w", fn, err),
	}
}

func QueryError(err error) error {
	msg := "Cannot read school records"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot query records: %w", fn, err),
	}
}

func DecodeError(key string, err error) error {
	msg := "Stored record <em>%s</em> is corrupted"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", fn, key, err),
	}
}
