package db_test

import (
	"testing"

	"github.com/p1data/p1db/internal/iodb"
	"github.com/p1data/p1db/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestPgxOperatorImplementsInterface verifies that the pgx operator
// implements the db.Operator interface.
func TestPgxOperatorImplementsInterface(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.Nil(t, op.Pool(), "pool is nil before Connect")
	assert.Nil(t, op.Close())
}
