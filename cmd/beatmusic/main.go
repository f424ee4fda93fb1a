// Command beatmusic is the heart-rate monitor: it calibrates the pulse
// sensor, runs the 50Hz sampling loop and drives the OLED screen, the
// buzzer and, optionally, NATS telemetry from the detected beats.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alibahrami/pulsebeat"
	"github.com/alibahrami/pulsebeat/internal/config"
	"github.com/alibahrami/pulsebeat/internal/display"
	"github.com/alibahrami/pulsebeat/internal/music"
	"github.com/alibahrami/pulsebeat/internal/telemetry"
)

const (
	calibrationAnimation = 3 * time.Second
	perfLogInterval      = 5 * time.Second
	melodyEveryNthBeat   = 4
)

type app struct {
	device *pulsebeat.Device
	screen *display.Screen
	player *music.Player
	pub    *telemetry.Publisher
	logger *zap.Logger

	beatCount int
	loopCount int
	lastPerf  time.Time
	startTime time.Time
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	// run owns all the cleanup; Fatal would skip its defers.
	if err := run(logger, os.Args[1:]); err != nil {
		logger.Error("beatmusic failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(logger *zap.Logger, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: beatmusic <config.yaml>")
	}

	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	a, err := build(cfg.Monitor, logger)
	if err != nil {
		a.showError("Init failed!")
		a.close()
		return err
	}
	defer a.close()

	a.startup(ctx)

	if err := a.device.Run(ctx, a.onTick); err != nil {
		a.showError("Runtime error!")
		return fmt.Errorf("sampling loop: %w", err)
	}

	a.shutdown()
	return nil
}

// build constructs the hardware collaborators. The screen comes first so
// later init failures can be shown on it. On error the returned app holds
// whatever came up so far; the caller closes it.
func build(m config.MonitorConfig, logger *zap.Logger) (*app, error) {
	a := &app{
		logger:    logger,
		lastPerf:  time.Now(),
		startTime: time.Now(),
	}

	if *m.Display.Enabled {
		screen, err := display.New(m.Display.Bus, logger)
		if err != nil {
			return a, fmt.Errorf("display init: %w", err)
		}
		a.screen = screen
		logger.Info("display initialized")
	}

	device, err := pulsebeat.New(
		pulsebeat.OnBus(m.Sensor.Bus),
		pulsebeat.OnAddr(m.Sensor.Addr),
		pulsebeat.OnChannel(m.Sensor.Channel),
		pulsebeat.ThresholdFactor(m.Sensor.ThresholdFactor),
		pulsebeat.MinBeatInterval(time.Duration(m.Sensor.MinBeatIntervalMs)*time.Millisecond),
		pulsebeat.TickPeriod(time.Duration(m.TickMs)*time.Millisecond),
	)
	if err != nil {
		return a, fmt.Errorf("pulse sensor init: %w", err)
	}
	a.device = device
	logger.Info("pulse sensor initialized")

	if *m.Buzzer.Enabled {
		player, err := music.NewPlayer(m.Buzzer.Pin, logger)
		if err != nil {
			return a, fmt.Errorf("buzzer init: %w", err)
		}
		a.player = player
		logger.Info("music player initialized", zap.String("pin", m.Buzzer.Pin))
	}

	if m.Telemetry.Enabled {
		pub, err := telemetry.Connect(m.Telemetry.URL, m.Telemetry.Subject, logger)
		if err != nil {
			return a, fmt.Errorf("telemetry init: %w", err)
		}
		a.pub = pub
		logger.Info("telemetry connected",
			zap.String("url", m.Telemetry.URL),
			zap.String("subject", m.Telemetry.Subject),
		)
	}

	return a, nil
}

// startup runs the splash screen, the calibration animation and the actual
// sensor calibration.
func (a *app) startup(ctx context.Context) {
	if a.screen != nil {
		if err := a.screen.Splash(); err != nil {
			a.logger.Warn("splash frame failed", zap.Error(err))
		}
	}
	if a.player != nil {
		if err := a.player.Startup(); err != nil {
			a.logger.Warn("startup jingle failed", zap.Error(err))
		}
	}
	time.Sleep(2 * time.Second)

	a.logger.Info("calibrating, keep finger steady")

	animStart := time.Now()
	lastJingle := 0
	for {
		elapsed := time.Since(animStart)
		if elapsed >= calibrationAnimation || ctx.Err() != nil {
			break
		}
		progress := int(elapsed * 100 / calibrationAnimation)

		if a.screen != nil {
			if err := a.screen.Calibration(progress); err != nil {
				a.logger.Warn("calibration frame failed", zap.Error(err))
			}
		}
		if a.player != nil && progress/25 > lastJingle && progress < 100 {
			lastJingle = progress / 25
			if err := a.player.CalibrationTick(); err != nil {
				a.logger.Warn("calibration blip failed", zap.Error(err))
			}
		}

		time.Sleep(50 * time.Millisecond)
	}

	cal, err := a.device.Calibrate(ctx)
	if err != nil {
		// Degraded but safe: detection falls back to the default
		// threshold state.
		a.logger.Warn("calibration incomplete, using defaults", zap.Error(err))
		return
	}
	a.logger.Info("calibration complete",
		zap.Int("baseline", cal.Baseline),
		zap.Int("threshold", cal.Threshold),
		zap.Int("min", cal.Min),
		zap.Int("max", cal.Max),
	)
}

// onTick consumes one sampling tick.
func (a *app) onTick(r pulsebeat.Reading) {
	a.loopCount++
	strength := a.device.SignalStrength()

	if r.Beat {
		a.beatCount++
		a.handleBeat(r, strength)
	}

	if a.player != nil {
		a.player.SetModeByBPM(r.BPM)
	}

	if a.screen != nil {
		if err := a.screen.Update(r.BPM, strength, r.Beat, r.Filtered); err != nil {
			a.logger.Warn("display update failed", zap.Error(err))
		}
	}

	if time.Since(a.lastPerf) > perfLogInterval {
		uptime := time.Since(a.startTime)
		a.logger.Info("performance",
			zap.Int("loops_per_sec", a.loopCount*1000/int(uptime.Milliseconds())),
			zap.Duration("uptime", uptime),
			zap.Int("beats", a.beatCount),
		)
		a.lastPerf = time.Now()
	}
}

func (a *app) handleBeat(r pulsebeat.Reading, strength uint32) {
	a.logger.Info("beat detected",
		zap.Int("count", a.beatCount),
		zap.Uint32("bpm", r.BPM),
		zap.Uint32("strength", strength),
	)

	if a.player != nil {
		if err := a.player.PlayBeat(r.BPM); err != nil {
			a.logger.Warn("beat sound failed", zap.Error(err))
		}
		if a.beatCount%melodyEveryNthBeat == 0 {
			if err := a.player.PlayMelodyNote(r.BPM); err != nil {
				a.logger.Warn("melody note failed", zap.Error(err))
			}
		}
	}

	if a.pub != nil {
		a.pub.PublishBeat(telemetry.BeatEvent{
			Ts:       time.Now().UnixMilli(),
			BPM:      r.BPM,
			Strength: strength,
			Raw:      r.Raw,
			Filtered: r.Filtered,
		})
	}
}

func (a *app) showError(msg string) {
	if a.screen != nil {
		if err := a.screen.Error(msg); err != nil {
			a.logger.Warn("error frame failed", zap.Error(err))
		}
	}
}

func (a *app) shutdown() {
	a.logger.Info("shutting down",
		zap.Int("beats", a.beatCount),
		zap.Duration("uptime", time.Since(a.startTime)),
	)
	if a.player != nil {
		if err := a.player.Silence(); err != nil {
			a.logger.Warn("could not silence buzzer", zap.Error(err))
		}
	}
	if a.screen != nil {
		if err := a.screen.Goodbye(); err != nil {
			a.logger.Warn("goodbye frame failed", zap.Error(err))
		}
	}
}

func (a *app) close() {
	if a.pub != nil {
		a.pub.Close()
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.screen != nil {
		a.screen.Close()
	}
}
