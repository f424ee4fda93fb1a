// Package display renders the heart-rate UI on an SSD1306 128x64 OLED
// panel: BPM readout, signal-strength bar, beat flash and a scrolling
// waveform of the filtered signal. Rendering happens in an off-screen 1-bit
// buffer that is pushed to the panel in one transaction per frame.
package display

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/devices/ssd1306/image1bit"
	"periph.io/x/periph/host"
)

const (
	width  = 128
	height = 64

	// Lower half of the panel holds the waveform band.
	waveTop    = 32
	waveHeight = 32
)

// drawer is the part of *ssd1306.Dev the screen needs.
type drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Screen owns the panel handle and the frame buffer.
type Screen struct {
	dev    drawer
	closer func()
	img    *image1bit.VerticalLSB
	logger *zap.Logger

	waveform [width]uint32
	wavePos  int

	// frameInterval caps how often Update pushes a frame; the sampling
	// loop ticks faster than the panel can take full refreshes.
	frameInterval time.Duration
	lastFrame     time.Time
}

// New opens the panel on the given I²C bus ("" selects the first available
// one). host.Init is idempotent, so the call is safe no matter which
// peripheral comes up first.
func New(busName string, logger *zap.Logger) (*Screen, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("display: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("display: could not open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("display: could not open panel: %w", err)
	}

	s := newScreen(dev, logger)
	s.closer = func() { bus.Close() }
	return s, nil
}

func newScreen(dev drawer, logger *zap.Logger) *Screen {
	return &Screen{
		dev:           dev,
		img:           image1bit.NewVerticalLSB(image.Rect(0, 0, width, height)),
		logger:        logger,
		frameInterval: 50 * time.Millisecond, // 20 FPS
	}
}

// Close releases the bus handle, if any.
func (s *Screen) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// Splash shows the startup screen.
func (s *Screen) Splash() error {
	s.clear()
	s.text(15, 16, "Beat to Music")
	s.text(10, 36, "Place finger on")
	s.text(34, 50, "sensor...")
	s.heart(110, 4)
	return s.flush()
}

// Calibration shows calibration progress (0-100).
func (s *Screen) Calibration(progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	s.clear()
	s.text(14, 16, "Calibrating...")
	s.bar(14, 30, 100, 10, progress)
	s.text(50, 56, fmt.Sprintf("%3d%%", progress))
	return s.flush()
}

// Error shows a full-screen error message.
func (s *Screen) Error(msg string) error {
	s.clear()
	s.text(46, 20, "ERROR")
	s.text(4, 40, msg)
	return s.flush()
}

// Goodbye shows the shutdown screen.
func (s *Screen) Goodbye() error {
	s.clear()
	s.text(35, 34, "Goodbye!")
	return s.flush()
}

// Update renders one monitoring frame. The filtered value scrolls into the
// waveform band regardless of beat state, so a flat line means a flat
// signal, not a dropped frame.
func (s *Screen) Update(bpm, strength uint32, beat bool, filtered uint32) error {
	s.waveform[s.wavePos] = filtered
	s.wavePos = (s.wavePos + 1) % width

	// Beat frames always go out so the flash is never dropped.
	if !beat && time.Since(s.lastFrame) < s.frameInterval {
		return nil
	}
	s.lastFrame = time.Now()

	s.clear()

	if bpm == 0 {
		s.text(0, 13, "BPM: --")
	} else {
		s.text(0, 13, fmt.Sprintf("BPM: %3d", bpm))
	}

	if strength == 0 {
		s.text(0, 28, "CHECK SENSOR")
	} else {
		s.text(0, 28, "SIG")
		s.bar(28, 19, 60, 8, int(strength))
	}

	if beat {
		s.heart(116, 2)
	}

	s.plotWaveform()

	return s.flush()
}

func (s *Screen) flush() error {
	if err := s.dev.Draw(s.img.Bounds(), s.img, image.Point{}); err != nil {
		return fmt.Errorf("display: could not push frame: %w", err)
	}
	return nil
}

func (s *Screen) clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

func (s *Screen) text(x, y int, msg string) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(msg)
}

// bar draws an outlined horizontal bar filled to pct (0-100).
func (s *Screen) bar(x, y, w, h, pct int) {
	for i := 0; i < w; i++ {
		s.img.SetBit(x+i, y, image1bit.On)
		s.img.SetBit(x+i, y+h-1, image1bit.On)
	}
	for j := 0; j < h; j++ {
		s.img.SetBit(x, y+j, image1bit.On)
		s.img.SetBit(x+w-1, y+j, image1bit.On)
	}

	fill := (w - 2) * pct / 100
	for i := 0; i < fill; i++ {
		for j := 1; j < h-1; j++ {
			s.img.SetBit(x+1+i, y+j, image1bit.On)
		}
	}
}

var heartBitmap = [8]byte{
	0b01100110,
	0b11111111,
	0b11111111,
	0b11111111,
	0b01111110,
	0b00111100,
	0b00011000,
	0b00000000,
}

func (s *Screen) heart(x, y int) {
	for row, bits := range heartBitmap {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) != 0 {
				s.img.SetBit(x+col, y+row, image1bit.On)
			}
		}
	}
}

// plotWaveform autoscales the buffered filtered values into the lower band.
// Columns are drawn oldest to newest, left to right.
func (s *Screen) plotWaveform() {
	lo, hi := s.waveform[0], s.waveform[0]
	for _, v := range s.waveform {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	for x := 0; x < width; x++ {
		v := s.waveform[(s.wavePos+x)%width]
		s.img.SetBit(x, waveY(v, lo, hi), image1bit.On)
	}
}

// waveY maps a value within [lo, hi] onto a row of the waveform band. A
// degenerate range maps to the band's midline.
func waveY(v, lo, hi uint32) int {
	if hi <= lo {
		return waveTop + waveHeight/2
	}
	scaled := int((v - lo) * (waveHeight - 1) / (hi - lo))
	return waveTop + (waveHeight - 1) - scaled
}
