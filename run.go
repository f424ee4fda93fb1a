package pulsebeat

import (
	"context"
	"time"
)

// TickFunc receives the outcome of one sampling tick.
type TickFunc func(r Reading)

// Run drives the sampling loop: one tick runs to completion, then the
// remainder of the tick budget is slept out. An overrunning tick is followed
// immediately by the next one; ticks are never queued or skipped. The
// context is checked between ticks only, so cancellation is cooperative and
// never interrupts a hardware read.
//
// Run returns nil when ctx is canceled and the read error on a hardware
// fault, which is fatal at this layer.
func (d *Device) Run(ctx context.Context, fn TickFunc) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		r, err := d.DetectBeat()
		if err != nil {
			return err
		}
		fn(r)

		if rest := d.tickPeriod - time.Since(start); rest > 0 {
			time.Sleep(rest)
		}
	}
}
