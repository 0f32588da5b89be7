// Package clock defines the Timekeeper interface the cpu package
// advances once per Step, plus a null implementation and a wall-clock
// pacing implementation adapted from the calibration technique in
// jmchacon/6502/cpu.go's SetClock/getClockAverage (there done per Tick;
// here done per Step since this core bills whole-instruction cycles).
package clock

import (
	"fmt"
	"time"
)

// Timekeeper consumes advanced cycle counts. Advance is called once
// per cpu.Chip.Step with the total cycles charged for that step
// (instruction base + branch/page-cross extras + any interrupt cost).
type Timekeeper interface {
	Advance(cycles uint32)
}

// NullTimekeeper discards cycle counts. It is the default when a Chip
// is created without an explicit Timekeeper.
type NullTimekeeper struct{}

// Advance implements Timekeeper.
func (NullTimekeeper) Advance(uint32) {}

// CycleCounter is a Timekeeper that simply accumulates total cycles,
// useful for tests that assert on billed cycle counts without needing
// wall-clock pacing.
type CycleCounter struct {
	Total uint64
}

// Advance implements Timekeeper.
func (c *CycleCounter) Advance(cycles uint32) {
	c.Total += uint64(cycles)
}

// WallClock paces Advance calls so that, on average, cycles elapse at
// the configured clock rate. It calibrates itself against the host's
// timer resolution the first time a rate is set, the same way the
// teacher's SetClock call computed an average per-Tick delay loop and
// then spun in place for that many iterations per Tick; here the spin
// budget is simply scaled by the cycle count passed to Advance instead
// of being a fixed per-Tick amount.
type WallClock struct {
	cyclePeriod time.Duration // wall time a single 6502 clock cycle should take
	avgTick     time.Duration // measured average cost of a single time.Now() call
	spinPerTick int           // number of avgTick-sized spins to burn per emulated cycle
}

// NewWallClock calibrates a WallClock targeting hz clock cycles per
// second (e.g. 1789773 for NTSC-ish NMOS parts). It measures the cost
// of calling time.Now() in a tight loop to determine how many spins
// approximate one emulated cycle, matching the teacher's calibration
// approach. Returns an error if hz is non-positive or the measured
// overhead exceeds the requested cycle period.
func NewWallClock(hz int) (*WallClock, error) {
	if hz <= 0 {
		return nil, errInvalidRate{hz}
	}
	period := time.Second / time.Duration(hz)

	const calibrationRuns = 200000
	start := time.Now()
	for i := 0; i < calibrationRuns; i++ {
		_ = time.Now()
	}
	avg := time.Since(start) / calibrationRuns
	if avg == 0 {
		avg = 1
	}
	if avg > period {
		return nil, errRateTooFast{hz, avg}
	}
	return &WallClock{
		cyclePeriod: period,
		avgTick:     avg,
		spinPerTick: int(period / avg),
	}, nil
}

// Advance burns approximately cycles * cyclePeriod of wall time via a
// busy-spin loop, the same technique the teacher's Tick() used at the
// end of every cycle when a clock rate was configured.
func (w *WallClock) Advance(cycles uint32) {
	spins := w.spinPerTick * int(cycles)
	for i := 0; i < spins; i++ {
		_ = time.Now()
	}
}

type errInvalidRate struct{ hz int }

func (e errInvalidRate) Error() string {
	return fmt.Sprintf("clock: invalid rate %dHz (must be > 0)", e.hz)
}

type errRateTooFast struct {
	hz  int
	avg time.Duration
}

func (e errRateTooFast) Error() string {
	return fmt.Sprintf("clock: requested rate %dHz exceeds measured timer resolution %s", e.hz, e.avg)
}
