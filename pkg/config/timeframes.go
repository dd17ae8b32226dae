package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimeFramePreset is one dashboard time frame read from YAML
type TimeFramePreset struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Days  int    `yaml:"days"`
}

// TimeFramesConfig holds the dashboard time frame presets. The first preset
// is the default.
type TimeFramesConfig struct {
	TimeFrames []TimeFramePreset `yaml:"timeframes"`
}

// LoadTimeFramesConfig loads time frame presets from a YAML file. It only
// parses; history.NewTimeFrameSet owns the rules a preset list must satisfy.
func LoadTimeFramesConfig(path string) (*TimeFramesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeframes config file: %w", err)
	}

	var config TimeFramesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse timeframes config: %w", err)
	}

	return &config, nil
}
