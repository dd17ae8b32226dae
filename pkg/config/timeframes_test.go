package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeframes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTimeFramesConfig(t *testing.T) {
	path := writeFile(t, `
timeframes:
  - key: 1d
    label: Today
    days: 1
  - key: 14d
    days: 14
`)

	cfg, err := LoadTimeFramesConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []TimeFramePreset{
		{Key: "1d", Label: "Today", Days: 1},
		{Key: "14d", Days: 14},
	}, cfg.TimeFrames)
}

func TestLoadTimeFramesConfig_Malformed(t *testing.T) {
	_, err := LoadTimeFramesConfig(writeFile(t, "timeframes: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadTimeFramesConfig_LeavesRulesToCaller(t *testing.T) {
	// zero days and a repeated key parse fine here
	cfg, err := LoadTimeFramesConfig(writeFile(t, "timeframes:\n  - key: 3d\n  - key: 3D\n    days: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []TimeFramePreset{{Key: "3d"}, {Key: "3D", Days: 3}}, cfg.TimeFrames)
}

func TestLoadTimeFramesConfig_MissingFile(t *testing.T) {
	_, err := LoadTimeFramesConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
