// Package music drives a PWM buzzer with heart-rate feedback: a chirp on
// every beat, a short melody note every few beats, and jingles for startup
// and calibration. The melody and tone lengths track the current BPM.
package music

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
)

var notes = map[string]int{
	"C4": 262, "D4": 294, "E4": 330, "F4": 349, "G4": 392, "A4": 440, "B4": 494,
	"C5": 523, "D5": 587, "E5": 659, "F5": 698, "G5": 784, "A5": 880, "B5": 988,
	"C6": 1047, "D6": 1175, "E6": 1319,
}

var (
	calmMelody   = []string{"C4", "E4", "G4", "C5"}
	normalMelody = []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"}
	fastMelody   = []string{"C5", "E5", "G5", "C6", "G5", "E5"}

	startupJingle = []string{"C4", "E4", "G4", "C5", "G4", "C5"}
)

// tonePin is the part of gpio.PinIO the player needs.
type tonePin interface {
	PWM(gpio.Duty, physic.Frequency) error
	Halt() error
}

// Player owns the buzzer pin. Tones block the caller for their duration;
// the sampling loop budget absorbs the short beat chirps.
type Player struct {
	pin    tonePin
	logger *zap.Logger

	melody      []string
	melodyIdx   int
	beatToneDur time.Duration

	sleep func(time.Duration)
}

// NewPlayer opens the named GPIO pin (e.g. "GPIO15"). The pin must support
// PWM.
func NewPlayer(pinName string, logger *zap.Logger) (*Player, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("music: could not initialize host: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("music: no such pin %q", pinName)
	}
	return newPlayer(pin, logger), nil
}

func newPlayer(pin tonePin, logger *zap.Logger) *Player {
	return &Player{
		pin:         pin,
		logger:      logger,
		melody:      normalMelody,
		beatToneDur: 150 * time.Millisecond,
		sleep:       time.Sleep,
	}
}

// SetModeByBPM picks the melody and tone length for the current heart rate.
func (p *Player) SetModeByBPM(bpm uint32) {
	switch {
	case bpm == 0:
		// no estimate yet, keep the current mode
	case bpm < 60:
		p.setMelody(calmMelody)
		p.beatToneDur = 200 * time.Millisecond
	case bpm > 100:
		p.setMelody(fastMelody)
		p.beatToneDur = 100 * time.Millisecond
	default:
		p.setMelody(normalMelody)
		p.beatToneDur = 150 * time.Millisecond
	}
}

func (p *Player) setMelody(m []string) {
	if &p.melody[0] == &m[0] {
		return
	}
	p.melody = m
	p.melodyIdx = 0
}

// PlayBeat plays the heartbeat chirp: two short tones pitched by BPM
// (50-120 BPM maps onto 200-800 Hz).
func (p *Player) PlayBeat(bpm uint32) error {
	base := beatFreq(bpm)
	if err := p.Tone(base, 50*time.Millisecond); err != nil {
		return err
	}
	p.sleep(20 * time.Millisecond)
	return p.Tone(base*12/10, 30*time.Millisecond)
}

func beatFreq(bpm uint32) int {
	f := 200 + (int(bpm)-50)*8
	if f < 200 {
		f = 200
	}
	if f > 800 {
		f = 800
	}
	return f
}

// PlayMelodyNote plays the next note of the current melody, pitch-bent
// slightly by the distance from a 70 BPM resting rate.
func (p *Player) PlayMelodyNote(bpm uint32) error {
	note := p.melody[p.melodyIdx]
	p.melodyIdx = (p.melodyIdx + 1) % len(p.melody)

	freq := int(float64(notes[note]) * (1.0 + (float64(bpm)-70)/200.0))
	return p.Tone(freq, 200*time.Millisecond)
}

// Startup plays the power-on jingle.
func (p *Player) Startup() error {
	for _, note := range startupJingle {
		if err := p.Tone(notes[note], 150*time.Millisecond); err != nil {
			return err
		}
		p.sleep(50 * time.Millisecond)
	}
	return nil
}

// CalibrationTick plays the short calibration progress blips.
func (p *Player) CalibrationTick() error {
	for i := 0; i < 3; i++ {
		if err := p.Tone(notes["A4"], 100*time.Millisecond); err != nil {
			return err
		}
		p.sleep(100 * time.Millisecond)
	}
	return nil
}

// Tone plays a single tone at 50% duty, then silences the pin.
func (p *Player) Tone(freq int, d time.Duration) error {
	if freq > 0 {
		if err := p.pin.PWM(gpio.DutyHalf, physic.Frequency(freq)*physic.Hertz); err != nil {
			return fmt.Errorf("music: could not start tone: %w", err)
		}
		p.sleep(d)
	}
	return p.Silence()
}

// Silence turns the buzzer off.
func (p *Player) Silence() error {
	if err := p.pin.Halt(); err != nil {
		return fmt.Errorf("music: could not silence buzzer: %w", err)
	}
	return nil
}
