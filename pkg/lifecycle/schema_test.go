package lifecycle_test

import (
	"testing"

	"github.com/p1data/p1db/internal/iodb"
	"github.com/p1data/p1db/internal/ioschema"
	"github.com/p1data/p1db/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestSchemaManagerContract ensures that the ioschema manager
// satisfies the lifecycle.SchemaManager interface.
func TestSchemaManagerContract(t *testing.T) {
	var sm lifecycle.SchemaManager = ioschema.NewManager(iodb.NewPgxOperator())
	assert.NotNil(t, sm)
}
