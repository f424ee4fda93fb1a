package pulsebeat

import (
	"context"
	"fmt"
	"time"
)

// Calibration is the threshold state seeded by a calibration run.
type Calibration struct {
	Baseline  int
	Threshold int
	Min       int
	Max       int
}

// Calibrate takes calibrationSamples raw readings spaced calibrationSpacing
// apart (about one second total), tracks the running min and max, and seeds
// the threshold state from them. It blocks for the whole run and must not
// race with Detect calls.
//
// On cancellation or a read fault the detector keeps its previous state;
// running uncalibrated is degraded but safe.
func (d *Detector) Calibrate(ctx context.Context, r AnalogReader) (Calibration, error) {
	min := adcMax
	max := 0

	for i := 0; i < calibrationSamples; i++ {
		select {
		case <-ctx.Done():
			return Calibration{}, ctx.Err()
		default:
		}

		v, err := r.ReadU16()
		if err != nil {
			return Calibration{}, fmt.Errorf("pulsebeat: could not calibrate: %w", err)
		}
		if int(v) < min {
			min = int(v)
		}
		if int(v) > max {
			max = int(v)
		}
		time.Sleep(calibrationSpacing)
	}

	cal := Calibration{
		Baseline:  (min + max) / 2,
		Threshold: (min+max)/2 + int(float64(max-min)*d.thresholdFactor),
		Min:       min,
		Max:       max,
	}

	d.baseline = cal.Baseline
	d.threshold = cal.Threshold
	d.valley = cal.Min
	d.peak = cal.Max
	d.calibrated = true

	return cal, nil
}
