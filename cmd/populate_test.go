package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/p1data/p1db/internal/iostore"
	"github.com/p1data/p1db/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchools = `[
  {"name": "Ai Tong School", "total_vacancies": 210,
   "phases": {"phase_2c": {"vacancies": 69, "applicants": 134, "balloting": true}}},
  {"name": "Rosyth School", "total_vacancies": 180,
   "phases": {"phase_2c": {"vacancies": 40, "applicants": 30}}}
]`

// TestGetPopulateCmd_Exists verifies getPopulateCmd returns
// a valid command.
func TestGetPopulateCmd_Exists(t *testing.T) {
	cmd := getPopulateCmd()
	require.NotNil(t, cmd, "Populate command should exist")
	assert.Equal(t, "populate", cmd.Use,
		"Command name should be populate")
	assert.Contains(t, cmd.Long, "sources.yaml",
		"Long description should mention config")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetPopulateCmd_Flags verifies --source-ids and
// --no-geocode flags exist.
func TestGetPopulateCmd_Flags(t *testing.T) {
	cmd := getPopulateCmd()

	flag := cmd.Flags().Lookup("source-ids")
	require.NotNil(t, flag,
		"--source-ids flag should exist")
	assert.Equal(t, "s", flag.Shorthand,
		"Short form should be -s")
	assert.Contains(t, flag.Usage, "source IDs",
		"Usage should mention source IDs")

	flag = cmd.Flags().Lookup("no-geocode")
	require.NotNil(t, flag,
		"--no-geocode flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

// setupSources writes a two source sources.yaml into a temporary
// home and points the global config to it.
func setupSources(t *testing.T) {
	t.Helper()
	cfg = iotesting.GetSQLiteConfig(t)
	dir := t.TempDir()
	iotesting.WriteFile(t, dir, "a.json", testSchools)
	iotesting.WriteSourcesYAML(t, cfg.HomeDir, fmt.Sprintf(`
year: 2024
sources:
  - id: 1
    path: %s
  - id: 3
    registry: true
`, filepath.Join(dir, "a.json")))
}

// TestFilterSources verifies conversion of a filter to IDs.
func TestFilterSources(t *testing.T) {
	setupSources(t)

	ids, err := filterSources("1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)

	ids, err = filterSources("2-")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids)
}

// TestRunPopulate_SQLite runs the import of one file source
// without geocoding into an SQLite store.
func TestRunPopulate_SQLite(t *testing.T) {
	setupSources(t)

	cmd := getPopulateCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-s", "1", "--no-geocode"}))

	err := runPopulate(cmd, "1", true)
	require.NoError(t, err)

	ctx := context.Background()
	st, err := iostore.Open(ctx, cfg)
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ai_tong_school", recs[0].Key)
	assert.True(t, recs[0].Balloted)
	assert.False(t, recs[0].HasLocation(), "Geocoding was off")
}
