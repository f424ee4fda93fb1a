package pulsebeat

import (
	"testing"
	"time"
)

func newTestDetector() *Detector {
	return NewDetector(defaultThresholdFactor, defaultMinBeatInterval)
}

func TestDetectFirstBeat(t *testing.T) {
	d := newTestDetector()

	beat, bpm := d.Detect(40000, 1000)
	if !beat {
		t.Fatal("expected a beat on first threshold crossing")
	}
	if bpm != 0 {
		t.Fatalf("bpm before any interval: got %d, want 0", bpm)
	}
}

func TestHysteresisIdempotence(t *testing.T) {
	d := newTestDetector()

	// Establish a real range: threshold adapts to 20000 + 0.6*20000.
	d.Detect(20000, 100)
	if beat, _ := d.Detect(40000, 1000); !beat {
		t.Fatal("expected initial beat")
	}

	// Armed, and every value stays above threshold*0.9: no re-detection.
	for i, f := range []uint32{33000, 35000, 39000, 40000, 33000} {
		if beat, _ := d.Detect(f, uint64(2000+i*100)); beat {
			t.Fatalf("unexpected beat while armed at filtered=%d", f)
		}
	}
}

func TestRefractoryGating(t *testing.T) {
	d := newTestDetector()

	d.Detect(20000, 100)
	beats := 0
	count := func(f uint32, now uint64) {
		if beat, _ := d.Detect(f, now); beat {
			beats++
		}
	}

	count(40000, 1000) // beat
	count(20000, 1100) // disarm
	count(40000, 1200) // 200ms since beat: gated
	count(20000, 1300) // disarm again
	count(40000, 1400) // 400ms since beat: accepted

	if beats != 2 {
		t.Fatalf("beats: got %d, want 2 (refractory must gate the middle crossing)", beats)
	}
}

func TestBPMConvergence(t *testing.T) {
	d := newTestDetector()
	d.Detect(20000, 100)

	var bpm uint32
	for i := 1; i <= 8; i++ {
		now := uint64(600 * i)
		if beat, b := d.Detect(40000, now); !beat {
			t.Fatalf("expected beat %d at t=%d", i, now)
		} else {
			bpm = b
		}
		d.Detect(20000, now+300)

		if i == 2 && bpm != 0 {
			t.Fatalf("bpm with a single interval: got %d, want 0", bpm)
		}
	}

	// 600ms spacing is exactly 100 BPM; allow 1 for integer truncation.
	if bpm < 99 || bpm > 100 {
		t.Fatalf("bpm after periodic beats: got %d, want 100±1", bpm)
	}
}

func TestThresholdAdaptationFloor(t *testing.T) {
	d := newTestDetector()

	// Spread never exceeds 1000 units: the threshold must not move.
	for i := 0; i < 500; i++ {
		f := uint32(30000 + (i*37)%1000)
		d.Detect(f, uint64(i*20))
	}

	if d.threshold != defaultThreshold {
		t.Fatalf("threshold moved below the range floor: got %d, want %d", d.threshold, defaultThreshold)
	}
}

func TestSignalStrength(t *testing.T) {
	tests := []struct {
		name string
		low  uint32
		high uint32
		want uint32
	}{
		{"range 500 collapses to 0", 20000, 20500, 0},
		{"range 1500 maps to 10", 20000, 21500, 10},
		{"range 10500 clamps at 100", 20000, 30500, 100},
		{"range 40000 clamps at 100", 20000, 60000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDetector()
			d.Detect(tt.low, 0)
			d.Detect(tt.high, 20)

			if got := d.SignalStrength(); got != tt.want {
				t.Fatalf("strength: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSignalStrengthUninitialized(t *testing.T) {
	d := newTestDetector()
	if got := d.SignalStrength(); got != 0 {
		t.Fatalf("strength before any sample: got %d, want 0", got)
	}
}

func TestStaleBPMPersists(t *testing.T) {
	d := newTestDetector()
	d.Detect(20000, 100)

	for i := 1; i <= 6; i++ {
		now := uint64(600 * i)
		d.Detect(40000, now)
		d.Detect(20000, now+300)
	}
	want := d.BPM()
	if want == 0 {
		t.Fatal("expected a converged bpm")
	}

	// A long silence does not clear the interval window; the old estimate
	// persists by design.
	for i := 0; i < 1000; i++ {
		if beat, bpm := d.Detect(20000, uint64(100000+i*20)); beat || bpm != want {
			t.Fatalf("silence tick %d: beat=%v bpm=%d, want no beat and bpm %d", i, beat, bpm, want)
		}
	}
}

func TestDetectorSafeDefaults(t *testing.T) {
	d := NewDetector(0.6, 300*time.Millisecond)

	beat, bpm := d.Detect(0, 0)
	if beat || bpm != 0 {
		t.Fatalf("uncalibrated zero input: beat=%v bpm=%d, want false/0", beat, bpm)
	}
	if d.Calibrated() {
		t.Fatal("detector must not report calibrated before Calibrate")
	}
}
