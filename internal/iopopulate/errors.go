package iopopulate

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
)

// NoStoreError is returned when populate runs without a record store.
func NoStoreError() error {
	msg := "Populate operation attempted without a record store"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: store is nil", fn),
	}
}

// NoSourcesError creates an error for when no matching
// sources are found.
func NoSourcesError(requestedIDs []int) error {
	msg := `No sources found matching requested IDs

<em>Requested IDs:</em> %v

<em>How to fix:</em>
  1. Check available sources: review sources.yaml
  2. Verify source IDs are correct`

	vars := []any{requestedIDs}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SourcesValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no sources found matching IDs: %v",
			fn, requestedIDs),
	}
}

// NoRegistryError is returned for registry sources when no registry
// client is available.
func NoRegistryError(sourceID int) error {
	msg := "Data source <em>%d</em> needs the school registry service"
	vars := []any{sourceID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServiceNotConfiguredError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no registry for source %d", fn, sourceID),
	}
}

// SourceDecodeError is returned when a source file is not valid P1 JSON.
func SourceDecodeError(sourceID int, err error) error {
	msg := "Cannot decode data source <em>%d</em>"
	vars := []any{sourceID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SourceDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: source %d: %w", fn, sourceID, err),
	}
}

// NoRecordsError is returned when sources gave no school statistics.
// Existing records are kept in this case.
func NoRecordsError(sourcesNum int) error {
	msg := `No school statistics found in %d sources

Stored records are left untouched.`
	vars := []any{sourcesNum}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PopulateNoRecordsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no records to store", fn),
	}
}

// AllSourcesFailedError is returned when no source could be read.
func AllSourcesFailedError(failed int) error {
	msg := "All <em>%d</em> data sources failed, see the log for details"
	vars := []any{failed}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PopulateAllSourcesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %d sources failed", fn, failed),
	}
}
