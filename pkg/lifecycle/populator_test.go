package lifecycle_test

import (
	"testing"

	"github.com/p1data/p1db/internal/iopopulate"
	"github.com/p1data/p1db/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestPopulatorContract ensures that the iopopulate implementation
// satisfies the lifecycle.Populator interface.
func TestPopulatorContract(t *testing.T) {
	var p lifecycle.Populator = iopopulate.New(nil, nil, nil)
	assert.NotNil(t, p)
}
