package config

import "testing"

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"zero tick", func(cfg *Config) { cfg.Monitor.TickMs = -1 }},
		{"channel too high", func(cfg *Config) { cfg.Monitor.Sensor.Channel = 4 }},
		{"negative channel", func(cfg *Config) { cfg.Monitor.Sensor.Channel = -1 }},
		{"zero factor", func(cfg *Config) { cfg.Monitor.Sensor.ThresholdFactor = -0.1 }},
		{"factor above one", func(cfg *Config) { cfg.Monitor.Sensor.ThresholdFactor = 1.5 }},
		{"zero refractory", func(cfg *Config) { cfg.Monitor.Sensor.MinBeatIntervalMs = -300 }},
		{"buzzer without pin", func(cfg *Config) { cfg.Monitor.Buzzer.Pin = "" }},
		{"telemetry without url", func(cfg *Config) { cfg.Monitor.Telemetry.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateTelemetryEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Monitor.Telemetry.Enabled = true
	cfg.Monitor.Telemetry.URL = "nats://127.0.0.1:4222"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
