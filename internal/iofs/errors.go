package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

// CreateDirError is returned when one of the p1db config, cache or log
// directories cannot be made.
func CreateDirError(dir string, err error) error {
	msg := `Cannot create p1db directory <em>%s</em>

p1db keeps config.yaml, sources.yaml, the SQLite store and logs under
~/.config/p1db, ~/.cache/p1db and ~/.local/share/p1db.
Check permissions of the home directory.`
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: mkdir %s: %w", fn, dir, err),
	}
}

// WriteDefaultFileError is returned when a default config.yaml or
// sources.yaml cannot be written.
func WriteDefaultFileError(path string, err error) error {
	msg := "Cannot write default settings to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteDefaultFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write default %s: %w", fn, path, err),
	}
}

// ReadFileError covers config files and JSON sources listed in
// sources.yaml.
func ReadFileError(path string, err error) error {
	msg := `Cannot read <em>%s</em>

If it is a P1 data source, fix its <em>path</em> in sources.yaml
or skip it with <em>p1db populate -s</em>.`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn, path, err),
	}
}
