// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: tsc.go — Timestamp counter reads and deadline arithmetic
//
// Purpose:
//   - Reads the TSC that UMWAIT/TPAUSE compare their deadline against
//   - Converts wall durations to absolute TSC deadlines via a calibrated clock
//
// Notes:
//   - Calibration is a one-shot ratio against time.Now; it assumes an
//     invariant TSC, which every WAITPKG-capable part has
//   - Off amd64 the counter is a monotonic nanosecond clock, ratio ≈ 1
// ─────────────────────────────────────────────────────────────────────────────

package tsc

import (
	"sync"
	"time"

	"github.com/codewanderer42820/waitpkg/constants"
)

// Now returns the current timestamp counter.
//
//go:nosplit
//go:inline
func Now() uint64 {
	return rdtsc()
}

// Clock converts between wall time and TSC cycles.
type Clock struct {
	perNs float64 // cycles per nanosecond
}

// Calibrate measures the counter rate over window.
func Calibrate(window time.Duration) Clock {
	t0 := time.Now()
	c0 := Now()
	time.Sleep(window)
	c1 := Now()
	elapsed := time.Since(t0).Nanoseconds()

	if elapsed <= 0 || c1 <= c0 {
		return Clock{perNs: 1}
	}
	return Clock{perNs: float64(c1-c0) / float64(elapsed)}
}

// FixedClock builds a Clock from a known rate, in cycles per nanosecond.
func FixedClock(cyclesPerNs float64) Clock {
	if cyclesPerNs <= 0 {
		cyclesPerNs = 1
	}
	return Clock{perNs: cyclesPerNs}
}

// Rate returns the calibrated cycles per nanosecond.
func (c Clock) Rate() float64 { return c.perNs }

// Hz returns the counter frequency.
func (c Clock) Hz() uint64 { return uint64(c.perNs * 1e9) }

// Cycles converts d to counter ticks. Negative durations are zero.
func (c Clock) Cycles(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(float64(d.Nanoseconds()) * c.perNs)
}

// Duration converts counter ticks to wall time.
func (c Clock) Duration(cycles uint64) time.Duration {
	return time.Duration(float64(cycles) / c.perNs)
}

// After returns the absolute deadline d from now. It saturates instead of wrapping.
func (c Clock) After(d time.Duration) uint64 {
	return AddSat(Now(), c.Cycles(d))
}

// AddSat adds cycles to base, pinning at the maximum counter value.
//
//go:nosplit
//go:inline
func AddSat(base, cycles uint64) uint64 {
	if s := base + cycles; s >= base {
		return s
	}
	return ^uint64(0)
}

var (
	defaultOnce  sync.Once
	defaultClock Clock
)

// Default returns the package clock, calibrating it on first use.
func Default() Clock {
	defaultOnce.Do(func() {
		defaultClock = Calibrate(constants.CalibrationWindow)
	})
	return defaultClock
}
