package pulsebeat

import "time"

// adcMax is the top of the raw sample domain. Readings follow the 16-bit
// converter convention even when the underlying hardware resolves fewer bits.
const adcMax = 65535

const (
	// filterSize is the number of raw samples averaged into one filtered
	// value.
	filterSize = 10

	// rangeFloor is the minimum peak-valley spread required before the
	// threshold adapts. Below it the signal is treated as flat.
	rangeFloor = 1000

	// hysteresis is the fraction of the threshold the signal must fall
	// below to re-arm beat detection.
	hysteresis = 0.9

	// maxIntervals bounds the window of inter-beat intervals averaged
	// into the BPM estimate.
	maxIntervals = 5
)

const (
	defaultBaseline  = 32768
	defaultThreshold = 35000

	defaultThresholdFactor = 0.6
	defaultMinBeatInterval = 300 * time.Millisecond
	defaultTickPeriod      = 20 * time.Millisecond
)

const (
	calibrationSamples = 100
	calibrationSpacing = 10 * time.Millisecond
)
