package ads1115

import "fmt"

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// Channel selects the single-ended input to convert (0 to 3).
func Channel(n int) Option {
	return func(d *Device) (Option, error) {
		if n < 0 || n > 3 {
			return nil, fmt.Errorf("ads1115: invalid channel %d, it should be 0 to 3", n)
		}
		old := int(d.mux-muxAIN0) >> muxShift
		d.mux = muxAIN0 | uint16(n)<<muxShift
		return Channel(old), nil
	}
}

// Gain sets the full-scale range of the programmable gain amplifier. It
// accepts one of the FS constants.
func Gain(fs uint16) Option {
	return func(d *Device) (Option, error) {
		if fs&^gainMask != 0 {
			return nil, fmt.Errorf("ads1115: invalid full-scale range %#x", fs)
		}
		old := d.gain
		d.gain = fs
		return Gain(old), nil
	}
}

// DataRate sets the conversion rate. It accepts one of the DR constants.
func DataRate(dr uint16) Option {
	return func(d *Device) (Option, error) {
		if dr&^rateMask != 0 {
			return nil, fmt.Errorf("ads1115: invalid data rate %#x", dr)
		}
		old := d.rate
		d.rate = dr
		return DataRate(old), nil
	}
}
