package config

// Defaults matching the reference hardware wiring.
const (
	DefaultTickMs            = 20
	DefaultADCAddr           = 0x48
	DefaultThresholdFactor   = 0.6
	DefaultMinBeatIntervalMs = 300
	DefaultBuzzerPin         = "GPIO15"
	DefaultTelemetrySubject  = "pulse.beats"
)

// ApplyDefaults fills in unset fields. It is allowed to mutate
// configuration. It MUST be called before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	m := &cfg.Monitor

	if m.TickMs == 0 {
		m.TickMs = DefaultTickMs
	}

	if m.Sensor.Addr == 0 {
		m.Sensor.Addr = DefaultADCAddr
	}
	if m.Sensor.ThresholdFactor == 0 {
		m.Sensor.ThresholdFactor = DefaultThresholdFactor
	}
	if m.Sensor.MinBeatIntervalMs == 0 {
		m.Sensor.MinBeatIntervalMs = DefaultMinBeatIntervalMs
	}

	if m.Display.Enabled == nil {
		on := true
		m.Display.Enabled = &on
	}

	if m.Buzzer.Enabled == nil {
		on := true
		m.Buzzer.Enabled = &on
	}
	if m.Buzzer.Pin == "" {
		m.Buzzer.Pin = DefaultBuzzerPin
	}

	if m.Telemetry.Subject == "" {
		m.Telemetry.Subject = DefaultTelemetrySubject
	}
}
