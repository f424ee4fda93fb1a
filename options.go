package pulsebeat

import "time"

// An Option configures a device.
type Option func(d *Device) Option

// OnBus can be used to specify the I²C bus name ("/dev/i2c-2", "I2C2", "2").
// By default, the bus name is "", which selects the first available bus.
func OnBus(name string) Option {
	return func(d *Device) Option {
		old := d.bus
		d.bus = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify an alternative I²C address for the ADC.
// By default, the address is 0x48.
func OnAddr(addr uint16) Option {
	return func(d *Device) Option {
		old := d.addr
		d.addr = addr
		return OnAddr(old)
	}
}

// OnChannel selects the single-ended ADC input the sensor is wired to (0-3).
func OnChannel(ch int) Option {
	return func(d *Device) Option {
		old := d.channel
		d.channel = ch
		return OnChannel(old)
	}
}

// ThresholdFactor sets the fraction of the peak-valley spread, above the
// valley, where the beat threshold sits. By default, the factor is 0.6.
func ThresholdFactor(f float64) Option {
	return func(d *Device) Option {
		old := d.thresholdFactor
		d.thresholdFactor = f
		return ThresholdFactor(old)
	}
}

// MinBeatInterval sets the refractory interval between accepted beats.
// By default, the interval is 300ms.
func MinBeatInterval(i time.Duration) Option {
	return func(d *Device) Option {
		old := d.minBeatInterval
		d.minBeatInterval = i
		return MinBeatInterval(old)
	}
}

// TickPeriod sets the target period of the sampling loop. By default, the
// period is 20ms (50Hz).
func TickPeriod(p time.Duration) Option {
	return func(d *Device) Option {
		old := d.tickPeriod
		d.tickPeriod = p
		return TickPeriod(old)
	}
}

// Clock overrides the monotonic millisecond clock used to timestamp beats.
func Clock(fn func() uint64) Option {
	return func(d *Device) Option {
		old := d.clock
		d.clock = fn
		return Clock(old)
	}
}
