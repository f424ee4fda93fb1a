// Package pulsebeat samples an analog pulse sensor, filters the raw signal
// with a moving average, and detects heartbeats with an adaptive threshold.
// It exposes a rolling BPM estimate and a coarse signal quality metric for
// downstream display and audio collaborators.
package pulsebeat

import (
	"context"
	"fmt"
	"time"

	"github.com/alibahrami/pulsebeat/ads1115"
)

// AnalogReader reads one fresh raw value from an analog channel. Readings
// are unsigned 16-bit regardless of the converter's native resolution.
type AnalogReader interface {
	ReadU16() (uint16, error)
}

// Reading is the outcome of one sampling tick.
type Reading struct {
	// Beat is true on the tick the rising edge of a heartbeat was
	// confirmed.
	Beat bool
	// Raw is the unfiltered sample taken this tick.
	Raw uint32
	// Filtered is the moving-average value fed to the detector.
	Filtered uint32
	// BPM is the current rolling estimate, 0 until enough beats have
	// been seen.
	BPM uint32
}

// Device owns the analog input handle, the filter window and the beat
// detector. All state is mutated from a single sampling loop; Device is not
// safe for concurrent use.
type Device struct {
	reader   AnalogReader
	filter   filterWindow
	detector *Detector

	bus     string
	addr    uint16
	channel int

	thresholdFactor float64
	minBeatInterval time.Duration
	tickPeriod      time.Duration

	clock  func() uint64
	closer func()
}

// New returns a Device backed by an ADS1115 converter on the I²C bus.
func New(opts ...Option) (*Device, error) {
	d := newDevice(opts)

	adc, err := ads1115.New(d.bus, d.addr, ads1115.Channel(d.channel))
	if err != nil {
		return nil, fmt.Errorf("pulsebeat: could not open ADC: %w", err)
	}
	d.reader = adc
	d.closer = adc.Close

	return d, nil
}

// NewFromReader returns a Device backed by the given reader. The Device owns
// the reader for its lifetime.
func NewFromReader(r AnalogReader, opts ...Option) *Device {
	d := newDevice(opts)
	d.reader = r
	return d
}

func newDevice(opts []Option) *Device {
	start := time.Now()
	d := &Device{
		addr:            ads1115.Addr,
		thresholdFactor: defaultThresholdFactor,
		minBeatInterval: defaultMinBeatInterval,
		tickPeriod:      defaultTickPeriod,
		clock: func() uint64 {
			return uint64(time.Since(start).Milliseconds())
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.detector = NewDetector(d.thresholdFactor, d.minBeatInterval)
	return d
}

// Close releases the hardware handle, if any.
func (d *Device) Close() {
	if d.closer != nil {
		d.closer()
	}
}

// DetectBeat runs one full tick: it takes a fresh sample and feeds the
// filtered value to the detector against the monotonic clock.
func (d *Device) DetectBeat() (Reading, error) {
	raw, filtered, err := d.Sample()
	if err != nil {
		return Reading{}, err
	}
	beat, bpm := d.detector.Detect(filtered, d.clock())
	return Reading{Beat: beat, Raw: raw, Filtered: filtered, BPM: bpm}, nil
}

// Calibrate seeds the detector's threshold state from about one second of
// raw readings. It must complete before steady-state ticking begins. If ctx
// is canceled mid-run, the pre-calibration defaults stay in effect.
func (d *Device) Calibrate(ctx context.Context) (Calibration, error) {
	return d.detector.Calibrate(ctx, d.reader)
}

// SignalStrength reports the detector's current quality metric (0-100).
func (d *Device) SignalStrength() uint32 {
	return d.detector.SignalStrength()
}

// Detector exposes the underlying beat detector.
func (d *Device) Detector() *Detector {
	return d.detector
}
