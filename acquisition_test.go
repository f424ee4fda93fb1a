package pulsebeat

import (
	"errors"
	"testing"
)

type fakeReader struct {
	values []uint16
	idx    int
	err    error
}

func (f *fakeReader) ReadU16() (uint16, error) {
	if f.err != nil {
		return 0, f.err
	}
	v := f.values[f.idx%len(f.values)]
	f.idx++
	return v, nil
}

func TestFilterWindowMean(t *testing.T) {
	values := []int{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	sum := 0
	for _, v := range values {
		sum += v
	}
	want := sum / filterSize

	var w filterWindow
	got := 0
	for _, v := range values {
		got = w.add(v)
	}

	if got != want {
		t.Fatalf("mean after %d samples: got %d, want %d", filterSize, got, want)
	}
}

func TestFilterWindowStartupBias(t *testing.T) {
	var w filterWindow

	// Zero-initialized slots drag the mean down until the window fills.
	if got := w.add(1000); got != 100 {
		t.Fatalf("first sample mean: got %d, want 100", got)
	}
	if got := w.add(1000); got != 200 {
		t.Fatalf("second sample mean: got %d, want 200", got)
	}
}

func TestFilterWindowOverwritesOldest(t *testing.T) {
	var w filterWindow

	got := 0
	for i := 1; i <= 15; i++ {
		got = w.add(i * 1000)
	}

	// Slots now hold 6000..15000.
	want := (6000 + 15000) * 10 / 2 / filterSize
	if got != want {
		t.Fatalf("mean after overwrite: got %d, want %d", got, want)
	}
}

func TestSampleReturnsRawAndFiltered(t *testing.T) {
	d := NewFromReader(&fakeReader{values: []uint16{5000}})

	raw, filtered, err := d.Sample()
	if err != nil {
		t.Fatalf("Sample() err=%v", err)
	}
	if raw != 5000 {
		t.Fatalf("raw: got %d, want 5000", raw)
	}
	if filtered != 500 {
		t.Fatalf("filtered: got %d, want 500", filtered)
	}
}

func TestSampleReadFault(t *testing.T) {
	fault := errors.New("bus stuck")
	d := NewFromReader(&fakeReader{err: fault})

	if _, _, err := d.Sample(); !errors.Is(err, fault) {
		t.Fatalf("expected wrapped read fault, got %v", err)
	}
}
