package pulsebeat

import "fmt"

// filterWindow is a fixed-size ring buffer over the last filterSize raw
// samples. The buffer starts zero-initialized, so the mean is biased toward
// zero until filterSize samples have been taken. That startup bias is
// intentional and documented behavior, not something to compensate for.
type filterWindow struct {
	buffer [filterSize]int
	idx    int
}

// add writes a raw sample over the oldest slot and returns the truncated
// integer mean of the whole window.
func (w *filterWindow) add(raw int) int {
	w.buffer[w.idx] = raw
	w.idx = (w.idx + 1) % filterSize

	sum := 0
	for _, v := range w.buffer {
		sum += v
	}
	return sum / filterSize
}

// Sample reads exactly one fresh value from the analog input, folds it into
// the filter window and returns both the raw and the filtered value. A read
// fault is fatal to the sampling loop: no staleness marker exists, so the
// caller cannot safely continue on last-known data.
func (d *Device) Sample() (raw, filtered uint32, err error) {
	v, err := d.reader.ReadU16()
	if err != nil {
		return 0, 0, fmt.Errorf("pulsebeat: could not read sensor: %w", err)
	}
	f := d.filter.add(int(v))
	return uint32(v), uint32(f), nil
}
