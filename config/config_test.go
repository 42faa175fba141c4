package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCombFileEmptyPathReturnsZeroValue(t *testing.T) {
	f, err := LoadCombFile("")
	require.NoError(t, err)
	assert.Equal(t, &CombFile{}, f)
}

func TestLoadCombFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ldcomb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dim: 3\nwide: true\nbrightness: 200\n"), 0o644))

	f, err := LoadCombFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Dim)
	assert.True(t, f.Wide)
	assert.Equal(t, 200.0, f.Brightness)
}

func TestLoadCombFileMissingFileErrors(t *testing.T) {
	_, err := LoadCombFile("/nonexistent/ldcomb.yaml")
	assert.Error(t, err)
}

func TestPreScanConfigPath(t *testing.T) {
	assert.Equal(t, "foo.yaml", PreScanConfigPath([]string{"-i", "in.raw", "--config", "foo.yaml", "-o", "out.rgb"}))
	assert.Equal(t, "bar.yaml", PreScanConfigPath([]string{"--config=bar.yaml"}))
	assert.Equal(t, "baz.yaml", PreScanConfigPath([]string{"-c", "baz.yaml"}))
	assert.Equal(t, "", PreScanConfigPath([]string{"-i", "in.raw"}))
}
