// Package ads1115 implements a driver for the TI ADS1115 16-bit I²C
// analog-to-digital converter in single-shot mode.
package ads1115

import (
	"encoding/binary"
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var (
	// ErrNotDevice is thrown when the chip at the given address does not
	// answer like an ADS1115.
	ErrNotDevice = errors.New("ads1115: device did not answer register write-back")
)

// Device defines an ADS1115 device.
type Device struct {
	dev *i2c.Dev
	bus i2c.BusCloser

	mux  uint16
	gain uint16
	rate uint16
}

// New returns a new ADS1115 device. By default, this selects single-ended
// input AIN0, a ±4.096V full-scale range and 128 samples/s.
//
// Argument "busName" can be used to specify the exact bus to use
// ("/dev/i2c-2", "I2C2", "2"). If it is the empty string, the first
// available bus is used. Argument "addr" can be used to specify an
// alternative address if the default (0x48) is unavailable; 0 selects the
// default.
func New(busName string, addr uint16, opts ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ads1115: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("ads1115: could not open I2C bus: %w", err)
	}

	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		dev:  &i2c.Dev{Addr: addr, Bus: bus},
		bus:  bus,
		mux:  muxAIN0,
		gain: FS4096,
		rate: DR128,
	}

	if _, err := d.Options(opts...); err != nil {
		bus.Close()
		return nil, err
	}

	if err := d.check(); err != nil {
		bus.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the device and cleans after itself.
func (d *Device) Close() {
	d.bus.Close()
}

// check writes a known value to the low threshold register and reads it
// back. The ADS1115 has no part ID register, so this is the closest thing to
// a presence probe.
func (d *Device) check() error {
	if err := d.writeReg(RegLoThresh, loThreshCheck); err != nil {
		return err
	}
	v, err := d.readReg(RegLoThresh)
	if err != nil {
		return err
	}
	if v != loThreshCheck {
		return ErrNotDevice
	}
	return nil
}

// ReadU16 performs one single-shot conversion on the configured channel and
// returns it scaled to the unsigned 16-bit convention: negative codes (noise
// below ground on a single-ended input) clamp to zero and the 15-bit
// positive range is left-shifted by one.
//
// The conversion-ready poll has no timeout: a wedged bus is a fatal
// condition for the caller, not a recoverable one.
func (d *Device) ReadU16() (uint16, error) {
	cfg := d.configWord()
	if err := d.writeReg(RegConfig, cfg); err != nil {
		return 0, err
	}

	for {
		v, err := d.readReg(RegConfig)
		if err != nil {
			return 0, err
		}
		if v&cfgOSSingle != 0 {
			break
		}
	}

	raw, err := d.readReg(RegConversion)
	if err != nil {
		return 0, err
	}

	v := int16(raw)
	if v < 0 {
		v = 0
	}
	return uint16(v) << 1, nil
}

func (d *Device) configWord() uint16 {
	return cfgOSSingle | d.mux | d.gain | cfgModeSingle | d.rate | cfgCompDisable
}

func (d *Device) writeReg(reg byte, val uint16) error {
	if err := d.dev.Tx([]byte{reg, byte(val >> 8), byte(val)}, nil); err != nil {
		return fmt.Errorf("ads1115: could not write register %#x: %w", reg, err)
	}
	return nil
}

func (d *Device) readReg(reg byte) (uint16, error) {
	b := make([]byte, 2)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, fmt.Errorf("ads1115: could not read register %#x: %w", reg, err)
	}
	return binary.BigEndian.Uint16(b), nil
}
