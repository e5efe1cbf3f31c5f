package bin_node

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid node config")

const (
	DefaultDeviceID      = "BIN01"
	DefaultFrequencyHz   = 915e6
	DefaultSleepDuration = time.Hour
	DefaultBinHeightCM   = 100
	DefaultFullThreshold = 20
)

// Config is fixed for the lifetime of a boot; the controller never mutates it.
type Config struct {
	DeviceID       string        `yaml:"device_id"`
	FrequencyHz    float64       `yaml:"frequency_hz"`
	SleepDuration  time.Duration `yaml:"sleep_duration"`
	SettleInterval time.Duration `yaml:"settle_interval"`
	Calibration    `yaml:",inline"`
}

func DefaultConfig() Config {
	return Config{
		DeviceID:       DefaultDeviceID,
		FrequencyHz:    DefaultFrequencyHz,
		SleepDuration:  DefaultSleepDuration,
		SettleInterval: DefaultSettleInterval,
		Calibration: Calibration{
			BinHeightCM:     DefaultBinHeightCM,
			FullThresholdCM: DefaultFullThreshold,
		},
	}
}

// LoadConfig reads a YAML file; keys left out keep their defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DeviceID) == "":
		return fmt.Errorf("%w: device_id is required", ErrInvalidConfig)
	case c.FrequencyHz <= 0:
		return fmt.Errorf("%w: frequency_hz must be positive", ErrInvalidConfig)
	case c.SleepDuration <= 0:
		return fmt.Errorf("%w: sleep_duration must be positive", ErrInvalidConfig)
	case c.SettleInterval < 0:
		return fmt.Errorf("%w: settle_interval must not be negative", ErrInvalidConfig)
	case c.FullThresholdCM < 0:
		return fmt.Errorf("%w: full_threshold_cm must not be negative", ErrInvalidConfig)
	case c.FullThresholdCM >= c.BinHeightCM:
		return fmt.Errorf("%w: full_threshold_cm (%g) must be below bin_height_cm (%g)",
			ErrInvalidConfig, c.FullThresholdCM, c.BinHeightCM)
	}
	return nil
}
