package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

// CreateLogFileError is returned when the "file" log destination cannot
// be opened.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>

Set <em>log.destination</em> to stderr or stdout in config.yaml,
or export P1DB_LOG_DESTINATION=stderr.`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open log %s: %w", fn, path, err),
	}
}
