package config

import "fmt"

// Validate checks configuration correctness. It performs declarative
// validation only. It MUST NOT mutate configuration and expects
// ApplyDefaults() to have run.
func Validate(cfg *Config) error {
	m := cfg.Monitor

	if m.TickMs <= 0 {
		return fmt.Errorf("monitor: tick_ms must be > 0, got %d", m.TickMs)
	}

	if m.Sensor.Channel < 0 || m.Sensor.Channel > 3 {
		return fmt.Errorf("sensor: channel must be 0 to 3, got %d", m.Sensor.Channel)
	}
	if m.Sensor.ThresholdFactor <= 0 || m.Sensor.ThresholdFactor > 1 {
		return fmt.Errorf("sensor: threshold_factor must be in (0, 1], got %v", m.Sensor.ThresholdFactor)
	}
	if m.Sensor.MinBeatIntervalMs <= 0 {
		return fmt.Errorf("sensor: min_beat_interval_ms must be > 0, got %d", m.Sensor.MinBeatIntervalMs)
	}

	if m.Buzzer.Enabled != nil && *m.Buzzer.Enabled && m.Buzzer.Pin == "" {
		return fmt.Errorf("buzzer: pin is required when enabled")
	}

	if m.Telemetry.Enabled {
		if m.Telemetry.URL == "" {
			return fmt.Errorf("telemetry: url is required when enabled")
		}
		if m.Telemetry.Subject == "" {
			return fmt.Errorf("telemetry: subject is required when enabled")
		}
	}

	return nil
}
