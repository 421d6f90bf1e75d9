package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/p1data/p1db/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied for schema public")
	tests := []struct {
		msg   string
		err   error
		code  gn.ErrorCode
		vars  []any
		hint  string
		cause bool
	}{
		{"not connected", NotConnectedError(),
			errcode.DBNotConnectedError, nil, "without database connection", false},
		{"gorm", GORMConnectionError(cause),
			errcode.SchemaGORMConnectionError, nil, "store.driver: sqlite", true},
		{"create", CreateSchemaError(cause),
			errcode.SchemaCreateError, nil, "p1db create --force", true},
		{"migrate", MigrateSchemaError(cause),
			errcode.SchemaMigrateError, nil, "p1db create", true},
		{"collation", CollationError("schools", "school_key", cause),
			errcode.SchemaCollationError, []any{"schools", "school_key"},
			"ALTER", true},
	}

	for _, v := range tests {
		var gnErr *gn.Error
		require.True(t, errors.As(v.err, &gnErr), v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Equal(t, v.vars, gnErr.Vars, v.msg)
		assert.Contains(t, gnErr.Msg, v.hint, v.msg)
		if v.cause {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		}
	}
}
