package ads1115

// Register map.
const (
	RegConversion = 0x00
	RegConfig     = 0x01
	RegLoThresh   = 0x02
	RegHiThresh   = 0x03
)

// Addr is the default I²C address (ADDR pin tied to GND).
const Addr = 0x48

// Config register fields.
const (
	cfgOSSingle    = 0x8000 // write: start conversion, read: conversion done
	cfgModeSingle  = 0x0100
	cfgCompDisable = 0x0003

	muxAIN0  = 0x4000
	muxShift = 12
)

// Full-scale input ranges of the programmable gain amplifier, in mV.
const (
	FS6144 = 0x0000
	FS4096 = 0x0200
	FS2048 = 0x0400
	FS1024 = 0x0600
	FS0512 = 0x0800
	FS0256 = 0x0A00
)

// Conversion data rates, in samples per second.
const (
	DR8   = 0x0000
	DR16  = 0x0020
	DR32  = 0x0040
	DR64  = 0x0060
	DR128 = 0x0080
	DR250 = 0x00A0
	DR475 = 0x00C0
	DR860 = 0x00E0
)

const (
	gainMask = 0x0E00
	rateMask = 0x00E0
)

// loThreshCheck is a benign value written to the low threshold register to
// verify the device answers: the comparator stays disabled, so the register
// has no effect.
const loThreshCheck = 0x8000
