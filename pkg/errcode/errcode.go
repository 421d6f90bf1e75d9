package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteDefaultFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Store errors
	StoreOpenError
	StoreReplaceError
	StoreQueryError
	StoreDecodeError

	// Sources errors
	SourcesConfigError
	SourcesValidationError
	SourceFileNotFoundError
	SourceReadError
	SourceDecodeError

	// Populate errors
	PopulateNoRecordsError
	PopulateAllSourcesFailedError

	// External service errors
	ServiceRequestError
	ServiceStatusError
	ServiceDecodeError
	ServiceNotConfiguredError
	GeocodeNotFoundError

	// Web errors
	WebServerError
)
