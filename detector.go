package pulsebeat

import "time"

// Detector turns a stream of filtered samples into confirmed beats and a
// rolling BPM estimate. It tracks an adaptive threshold between the observed
// peak and valley, latches on rising edges with a hysteresis band, and
// enforces a refractory interval between beats.
type Detector struct {
	thresholdFactor float64
	minBeatInterval uint64

	baseline  int
	threshold int
	peak      int
	valley    int

	armed        bool
	lastBeatTime uint64

	intervals []uint64
	bpm       uint32

	calibrated bool
}

// NewDetector returns a detector with safe defaults. Without calibration the
// threshold sits at the middle of the upper raw range, which yields
// meaningless but harmless output until the threshold adapts.
func NewDetector(thresholdFactor float64, minBeatInterval time.Duration) *Detector {
	return &Detector{
		thresholdFactor: thresholdFactor,
		minBeatInterval: uint64(minBeatInterval.Milliseconds()),
		baseline:        defaultBaseline,
		threshold:       defaultThreshold,
		valley:          adcMax,
		intervals:       make([]uint64, 0, maxIntervals),
	}
}

// Detect processes one filtered sample taken at nowMs (monotonic
// milliseconds). It reports whether a new beat was confirmed on this sample
// and the current BPM estimate.
//
// BPM is 0 until at least two inter-beat intervals have been recorded. The
// interval window is never cleared on silence: after the signal stops, the
// last estimate persists until new beats displace the old intervals.
func (d *Detector) Detect(filtered uint32, nowMs uint64) (beat bool, bpm uint32) {
	f := int(filtered)

	if f > d.peak {
		d.peak = f
	}
	if f < d.valley {
		d.valley = f
	}
	// Only adapt once the spread is clearly above noise, otherwise a flat
	// pre-calibration signal would collapse the threshold.
	if r := d.peak - d.valley; r > rangeFloor {
		d.threshold = d.valley + int(float64(r)*d.thresholdFactor)
	}

	switch {
	case f > d.threshold && !d.armed && nowMs-d.lastBeatTime > d.minBeatInterval:
		beat = true
		d.armed = true
		if d.lastBeatTime > 0 {
			d.recordInterval(nowMs - d.lastBeatTime)
		}
		d.lastBeatTime = nowMs

	case float64(f) < float64(d.threshold)*hysteresis:
		d.armed = false
	}

	return beat, d.bpm
}

func (d *Detector) recordInterval(interval uint64) {
	d.intervals = append(d.intervals, interval)
	if len(d.intervals) > maxIntervals {
		copy(d.intervals, d.intervals[1:])
		d.intervals = d.intervals[:maxIntervals]
	}
	if len(d.intervals) < 2 {
		return
	}

	sum := uint64(0)
	for _, v := range d.intervals {
		sum += v
	}
	avg := float64(sum) / float64(len(d.intervals))
	d.bpm = uint32(60000 / avg)
}

// SignalStrength maps the observed peak-valley spread onto a 0-100 quality
// scale. Spreads of 500 or less report 0, which collaborators display as
// "check sensor".
func (d *Detector) SignalStrength() uint32 {
	s := (d.peak - d.valley - 500) / 100
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return uint32(s)
}

// BPM returns the current estimate without processing a sample.
func (d *Detector) BPM() uint32 {
	return d.bpm
}

// Calibrated reports whether Calibrate has completed.
func (d *Detector) Calibrated() bool {
	return d.calibrated
}
