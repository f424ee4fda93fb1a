package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	TickMs    int             `yaml:"tick_ms"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Display   DisplayConfig   `yaml:"display"`
	Buzzer    BuzzerConfig    `yaml:"buzzer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Bus               string  `yaml:"bus"`
	Addr              uint16  `yaml:"addr"`
	Channel           int     `yaml:"channel"`
	ThresholdFactor   float64 `yaml:"threshold_factor"`
	MinBeatIntervalMs int     `yaml:"min_beat_interval_ms"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil means enabled
	Bus     string `yaml:"bus"`
}

// ---- BUZZER ----

type BuzzerConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil means enabled
	Pin     string `yaml:"pin"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"` // opt-in
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Load reads and decodes a YAML configuration file. It performs no
// validation and applies no defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}

	return &cfg, nil
}
