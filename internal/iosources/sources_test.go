package iosources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/p1data/p1db/internal/iotesting"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourcesConfig_Minimal(t *testing.T) {
	tmpDir := t.TempDir()
	dataPath := iotesting.WriteFile(t, tmpDir, "p1.json", `[]`)

	yamlContent := `
year: 2024
sources:
  - id: 2
    path: ` + dataPath + `
    shape: curated
  - id: 1
    registry: true
`
	configPath := iotesting.WriteFile(t, tmpDir, "sources.yaml", yamlContent)

	res, err := loadSourcesConfig(configPath, tmpDir)
	require.NoError(t, err)
	require.Len(t, res.DataSources, 2)

	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 1, res.DataSources[0].ID, "sorted by id")
	assert.True(t, res.DataSources[0].Registry)
	shape, err := res.DataSources[1].ParsedShape()
	require.NoError(t, err)
	assert.Equal(t, reconcile.ShapeCurated, shape)
}

func TestLoadSourcesConfig_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "data"), 0755))
	dataPath := iotesting.WriteFile(t, filepath.Join(home, "data"), "p1.json", `[]`)

	configPath := iotesting.WriteSourcesYAML(t, home, `
sources:
  - id: 1
    path: ~/data/p1.json
`)

	res, err := loadSourcesConfig(configPath, home)
	require.NoError(t, err)
	assert.Equal(t, dataPath, res.DataSources[0].Path)
	assert.Equal(t, reconcile.DefaultYear, res.Year)
	assert.NotEmpty(t, res.Warnings)
}

func TestLoadSourcesConfig_FileNotFound(t *testing.T) {
	_, err := loadSourcesConfig("nonexistent.yaml", t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}

func TestLoadSourcesConfig_MissingDataFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := iotesting.WriteFile(t, tmpDir, "sources.yaml", `
sources:
  - id: 1
    path: `+filepath.Join(tmpDir, "absent.json")+`
`)

	_, err := loadSourcesConfig(configPath, tmpDir)
	assert.Error(t, err)
}

func TestLoadSourcesConfig_DirectoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := iotesting.WriteFile(t, tmpDir, "sources.yaml", `
sources:
  - id: 1
    path: `+tmpDir+`
`)

	_, err := loadSourcesConfig(configPath, tmpDir)
	assert.Error(t, err)
}

func TestLoadSourcesConfig_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	tests := []struct {
		msg, yaml string
	}{
		{"bad yaml", "sources: [:"},
		{"no sources", "year: 2024\n"},
		{"duplicate ids", "sources:\n  - id: 1\n    registry: true\n  - id: 1\n    registry: true\n"},
	}
	for _, v := range tests {
		path := iotesting.WriteFile(t, tmpDir, "sources.yaml", v.yaml)
		_, err := loadSourcesConfig(path, tmpDir)
		assert.Error(t, err, v.msg)
	}
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	iotesting.WriteSourcesYAML(t, home, `
sources:
  - id: 1
    registry: true
`)
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(home)})

	res, err := New(cfg).Load()
	require.NoError(t, err)
	assert.Len(t, res.DataSources, 1)

	cfg.Update([]config.Option{config.OptHomeDir(t.TempDir())})
	_, err = New(cfg).Load()
	assert.Error(t, err)
}
