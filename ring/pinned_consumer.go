// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ CORE-PINNED CONSUMER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Dedicated core ring consumption
//
// Description:
//   Locks a goroutine to an OS thread pinned to one core and drains a Ring.
//   While the producer is hot it spins; once cold it escalates through the
//   waiter: PAUSE, then one bounded UMWAIT slice at a time on the next slot.
//
// Adaptive Behavior:
//   - Hot: producer signalled recently, or a message arrived within HotWindow
//   - Cold: after SpinBudget misses, park on the slot's sequence word
//   - Stop is observed between slices, so shutdown latency is one slice
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package ring

import (
	"runtime"
	"time"

	"github.com/codewanderer42820/waitpkg/constants"
	"github.com/codewanderer42820/waitpkg/control"
	"github.com/codewanderer42820/waitpkg/idle"
)

// PinnedConsumer drains r on core until flags reports a shutdown, then closes done.
// The consumer also drives flags' cooldown.
func PinnedConsumer(
	core int,
	r *Ring,
	w *idle.Waiter,
	flags *control.Flags,
	handler func(*[PayloadSize]byte),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core)

		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		spin := w.Policy().SpinBudget
		var miss int
		lastHit := time.Now()

		for {
			if flags.Stopped() {
				return
			}

			if p := r.Pop(); p != nil {
				handler(p)
				miss = 0
				lastHit = time.Now()
				continue
			}

			flags.PollCooldown()
			if flags.Hot() || time.Since(lastHit) <= constants.HotWindow {
				idle.Relax()
				continue
			}

			if miss++; miss >= spin {
				miss = 0
				seq, empty := r.next()
				w.Park(seq, empty)
			}
		}
	}()
}
