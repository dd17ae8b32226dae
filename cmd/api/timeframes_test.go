package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/brc20dash/internal/history"
)

func writeTimeFrames(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeframes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTimeFrames(t *testing.T) {
	frames, err := loadTimeFrames(writeTimeFrames(t, `
timeframes:
  - key: 1D
    label: Today
    days: 1
  - key: 14d
    days: 14
`))
	require.NoError(t, err)

	assert.Equal(t, []history.TimeFrame{
		{Key: "1d", Label: "Today", Days: 1},
		{Key: "14d", Label: "Last 14 Days", Days: 14},
	}, frames.Frames())
	assert.Equal(t, "1d", frames.Default().Key)
}

func TestLoadTimeFrames_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "timeframes: []"},
		{"missing key", "timeframes:\n  - days: 3\n"},
		{"zero days", "timeframes:\n  - key: 3d\n"},
		{"duplicate key ignoring case", "timeframes:\n  - key: 3d\n    days: 3\n  - key: 3D\n    days: 4\n"},
		{"duplicate span", "timeframes:\n  - key: 3d\n    days: 3\n  - key: three\n    days: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTimeFrames(writeTimeFrames(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, history.ErrInvalidTimeFrame)
		})
	}
}

func TestLoadTimeFrames_Unreadable(t *testing.T) {
	_, err := loadTimeFrames(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, history.ErrInvalidTimeFrame)
}
