package iosources

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

// SourcesConfigError creates an error for when sources.yaml
// cannot be loaded.
func SourcesConfigError(path string, err error) error {
	msg := `Cannot load sources configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - A listed JSON file is missing

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Check paths of the sources`

	vars := []any{path, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)

	return &gn.Error{
		Code: errcode.SourcesConfigError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to load sources config: %w",
			fn, err),
	}
}

// SourceFileNotFoundError is returned when a data source points to a
// file that cannot be used.
func SourceFileNotFoundError(id int, path string, err error) error {
	msg := "Data source <em>%d</em> file <em>%s</em> is not found"
	vars := []any{id, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)

	return &gn.Error{
		Code: errcode.SourceFileNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: source %d file %s: %w",
			fn, id, path, err),
	}
}
