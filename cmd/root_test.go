package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "p1db", cmd.Use,
		"Command name should be p1db")
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{flag})

		err := cmd.Execute()
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "v1.2.3", flag)
		assert.Contains(t, output, "abc123", flag)
		assert.NotContains(t, output, "p1db version",
			"Should use custom version template")
	}
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "P1DB_DATABASE_HOST",
		"Help should list environment variables")
	assert.Contains(t, helpText, "REST API",
		"Help should mention the API")
	for _, sub := range []string{"create", "migrate", "populate", "serve", "match"} {
		assert.Contains(t, helpText, sub, "Help should list "+sub)
	}
}

// TestGetRootCmd_Settings verifies bootstrap, run function
// and error silencing.
func TestGetRootCmd_Settings(t *testing.T) {
	cmd := getRootCmd()

	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.RunE,
		"RunE should be set to handle version flag")
	assert.True(t, cmd.SilenceErrors, "Errors should be silenced")
	assert.True(t, cmd.SilenceUsage, "Usage should be silenced on errors")
}

// TestGetRootCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each getRootCmd call should return new instance")

	cmd1.Version = "version1"
	cmd2.Version = "version2"
	assert.Equal(t, "version1", cmd1.Version)
	assert.Equal(t, "version2", cmd2.Version)
}

// TestGetRootCmd_InvalidCommand verifies error on
// invalid command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()

	assert.Error(t, err,
		"Should error on invalid command")
	output := buf.String()
	assert.True(t,
		strings.Contains(output, "unknown") ||
			strings.Contains(err.Error(), "unknown"),
		"Error should indicate unknown command")
}
