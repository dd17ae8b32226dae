package main

import (
	"github.com/kislikjeka/brc20dash/internal/history"
	"github.com/kislikjeka/brc20dash/pkg/config"
)

// loadTimeFrames reads presets from YAML and validates them as a set
func loadTimeFrames(path string) (*history.TimeFrameSet, error) {
	framesCfg, err := config.LoadTimeFramesConfig(path)
	if err != nil {
		return nil, err
	}

	presets := make([]history.TimeFrame, len(framesCfg.TimeFrames))
	for i, p := range framesCfg.TimeFrames {
		presets[i] = history.TimeFrame{Key: p.Key, Label: p.Label, Days: p.Days}
	}
	return history.NewTimeFrameSet(presets)
}
