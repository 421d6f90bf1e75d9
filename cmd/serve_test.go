package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetServeCmd_PortFlag verifies the --port flag.
func TestGetServeCmd_PortFlag(t *testing.T) {
	cmd := getServeCmd()
	assert.Equal(t, "serve", cmd.Use)

	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag, "--port flag should exist")
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "8080", flag.DefValue)
	assert.Contains(t, cmd.Long, "/api/strategy/generate",
		"Help should list endpoints")
}
