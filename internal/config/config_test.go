package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	data := []byte(`
monitor:
  tick_ms: 10
  sensor:
    channel: 2
    threshold_factor: 0.5
  telemetry:
    enabled: true
    url: nats://127.0.0.1:4222
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.Monitor.TickMs != 10 {
		t.Fatalf("tick_ms: got %d, want 10", cfg.Monitor.TickMs)
	}
	if cfg.Monitor.Sensor.Channel != 2 {
		t.Fatalf("channel: got %d, want 2", cfg.Monitor.Sensor.Channel)
	}
	// Load must not fill defaults; that is ApplyDefaults' job.
	if cfg.Monitor.Sensor.Addr != 0 {
		t.Fatalf("addr: got %#x, want 0 before defaults", cfg.Monitor.Sensor.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("monitor: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	m := cfg.Monitor
	if m.TickMs != DefaultTickMs {
		t.Fatalf("tick_ms: got %d, want %d", m.TickMs, DefaultTickMs)
	}
	if m.Sensor.Addr != DefaultADCAddr {
		t.Fatalf("addr: got %#x, want %#x", m.Sensor.Addr, DefaultADCAddr)
	}
	if m.Sensor.ThresholdFactor != DefaultThresholdFactor {
		t.Fatalf("threshold_factor: got %v, want %v", m.Sensor.ThresholdFactor, DefaultThresholdFactor)
	}
	if m.Sensor.MinBeatIntervalMs != DefaultMinBeatIntervalMs {
		t.Fatalf("min_beat_interval_ms: got %d, want %d", m.Sensor.MinBeatIntervalMs, DefaultMinBeatIntervalMs)
	}
	if m.Display.Enabled == nil || !*m.Display.Enabled {
		t.Fatal("display must default to enabled")
	}
	if m.Buzzer.Enabled == nil || !*m.Buzzer.Enabled {
		t.Fatal("buzzer must default to enabled")
	}
	if m.Buzzer.Pin != DefaultBuzzerPin {
		t.Fatalf("pin: got %q, want %q", m.Buzzer.Pin, DefaultBuzzerPin)
	}
	if m.Telemetry.Enabled {
		t.Fatal("telemetry must default to disabled")
	}
	if m.Telemetry.Subject != DefaultTelemetrySubject {
		t.Fatalf("subject: got %q, want %q", m.Telemetry.Subject, DefaultTelemetrySubject)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	off := false
	cfg := &Config{}
	cfg.Monitor.TickMs = 5
	cfg.Monitor.Display.Enabled = &off

	ApplyDefaults(cfg)

	if cfg.Monitor.TickMs != 5 {
		t.Fatalf("tick_ms: got %d, want 5", cfg.Monitor.TickMs)
	}
	if *cfg.Monitor.Display.Enabled {
		t.Fatal("explicit display.enabled=false must survive defaults")
	}
}
