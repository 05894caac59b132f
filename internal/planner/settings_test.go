package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SaveSettings(dir, Settings{StorageLocation: "/srv/planner-data"}))

	_, err := os.Stat(filepath.Join(dir, SettingsFile))
	require.NoError(t, err)

	got := LoadSettings(dir)
	assert.Equal(t, "/srv/planner-data", got.StorageLocation)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	got := LoadSettings(t.TempDir())
	assert.Equal(t, DefaultStorageDir(), got.StorageLocation)
}

func TestLoadSettingsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("{broken"), 0644))

	got := LoadSettings(dir)
	assert.Equal(t, DefaultStorageDir(), got.StorageLocation)
}

func TestLoadSettingsEmptyLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(`{"storage_location": ""}`), 0644))

	got := LoadSettings(dir)
	assert.Equal(t, DefaultStorageDir(), got.StorageLocation)
}
