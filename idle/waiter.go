// ════════════════════════════════════════════════════════════════════════════════════════════════
// ADAPTIVE WAITER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Spin → Relax → Monitor/Wait escalation
//
// Description:
//   Waits for a 64-bit word to leave a known value. Short gaps are covered by
//   plain polling, medium ones by PAUSE, and long ones by arming UMONITOR on the
//   word and parking in UMWAIT for one bounded slice at a time. Without WAITPKG
//   the last stage yields to the Go scheduler instead.
//
// Slices:
//   - Each UMWAIT is bounded by Policy.SliceCycles so callers regain control
//     to poll stop flags
//   - The slice is clamped to the kernel's umwait max_time when readable
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package idle

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/codewanderer42820/waitpkg/constants"
	"github.com/codewanderer42820/waitpkg/debug"
	"github.com/codewanderer42820/waitpkg/tsc"
	"github.com/codewanderer42820/waitpkg/umwaitctl"
	"github.com/codewanderer42820/waitpkg/utils"
	"github.com/codewanderer42820/waitpkg/waitpkg"
)

// Policy tunes the escalation.
type Policy struct {
	SpinBudget  int          // plain polls before relaxing
	RelaxBudget int          // PAUSE polls before parking
	SliceCycles uint64       // TSC budget of one UMWAIT
	Ctrl        waitpkg.Ctrl // C0.1 or C0.2
}

// DefaultPolicy favours wakeup latency.
func DefaultPolicy() Policy {
	return Policy{
		SpinBudget:  constants.SpinBudget,
		RelaxBudget: constants.RelaxBudget,
		SliceCycles: constants.WaitBudgetCycles,
		Ctrl:        waitpkg.C01,
	}
}

// Waiter applies a Policy. A Waiter carries no per-wait state and may be
// shared, but each blocked goroutine occupies its own OS thread.
type Waiter struct {
	tok    waitpkg.Token
	policy Policy
	clock  tsc.Clock
}

// New detects WAITPKG and fits p to the kernel's limits.
func New(p Policy) *Waiter {
	tok, ok := waitpkg.Detect()
	if !ok {
		debug.DropMessage("IDLE", "WAITPKG unavailable, parking falls back to the scheduler")
		return NewWithToken(tok, p)
	}
	if ctl, err := umwaitctl.ReadSystem(); err == nil {
		p = Fit(p, ctl)
	}
	debug.DropMessage("IDLE", "UMWAIT slice "+utils.Utoa(p.SliceCycles)+" cycles")
	return NewWithToken(tok, p)
}

// NewWithToken builds a Waiter around an existing capability. A zero Token
// selects the scheduler fallback. With a valid Token the package TSC clock is
// calibrated here, so the first call may block for constants.CalibrationWindow
// and Pause never does.
func NewWithToken(tok waitpkg.Token, p Policy) *Waiter {
	w := &Waiter{tok: tok, policy: p}
	if tok.Valid() {
		w.clock = tsc.Default()
	}
	return w
}

// Fit clamps the slice to the OS limit and drops to C0.1 when C0.2 is disabled.
func Fit(p Policy, ctl umwaitctl.Control) Policy {
	p.SliceCycles = ctl.Clamp(p.SliceCycles)
	if p.Ctrl == waitpkg.C02 && !ctl.C02Allowed() {
		p.Ctrl = waitpkg.C01
	}
	return p
}

// Hardware reports whether parking uses UMWAIT.
func (w *Waiter) Hardware() bool { return w.tok.Valid() }

// Policy returns the effective policy.
func (w *Waiter) Policy() Policy { return w.policy }

// WaitChange blocks until *addr differs from old and returns the new value.
// addr must not live on a goroutine stack.
func (w *Waiter) WaitChange(addr *uint64, old uint64) uint64 {
	for i := 0; i < w.policy.SpinBudget; i++ {
		if v := atomic.LoadUint64(addr); v != old {
			return v
		}
	}
	for i := 0; i < w.policy.RelaxBudget; i++ {
		if v := atomic.LoadUint64(addr); v != old {
			return v
		}
		Relax()
	}
	for {
		if v := atomic.LoadUint64(addr); v != old {
			return v
		}
		w.Park(addr, old)
	}
}

// Park performs one bounded wait for *addr to leave old and reports whether it did.
func (w *Waiter) Park(addr *uint64, old uint64) bool {
	if !w.tok.Valid() {
		runtime.Gosched()
		return atomic.LoadUint64(addr) != old
	}

	// Arm and wait on the same logical core.
	runtime.LockOSThread()
	waitpkg.Monitor(w.tok, addr)
	if atomic.LoadUint64(addr) != old {
		runtime.UnlockOSThread()
		umwaitChanged.Inc()
		return true
	}
	deadline := tsc.AddSat(tsc.Now(), w.policy.SliceCycles)
	cf := w.tok.Umwait(w.policy.Ctrl, deadline)
	runtime.UnlockOSThread()

	changed := atomic.LoadUint64(addr) != old
	countUmwait(classify(cf, changed, tsc.Now(), deadline))
	return changed
}

// Pause idles the calling thread for about d and returns the carry flag of the
// last TPAUSE. Early wakeups are retried against the same deadline. Without
// WAITPKG it sleeps and returns 0.
func (w *Waiter) Pause(d time.Duration) uint8 {
	if !w.tok.Valid() {
		time.Sleep(d)
		return 0
	}
	deadline := w.clock.After(d)
	for {
		cf := w.tok.Tpause(w.policy.Ctrl, deadline)
		now := tsc.Now()
		countTpause(classify(cf, false, now, deadline))
		if now >= deadline {
			return cf
		}
	}
}
