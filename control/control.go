// control.go — Activity and shutdown flags for pinned consumers
// ============================================================================
// CONSUMER COORDINATION
// ============================================================================
//
// A Flags value is shared by one producer side and any number of pinned
// consumers. The producer marks activity; consumers read the hot flag to
// decide between spinning and parking, and poll the stop flag between waits.
//
// Threading model:
//   • Producers call SignalActivity on every burst
//   • One consumer calls PollCooldown from its idle loop
//   • Anyone may call Shutdown; consumers observe it within one wait slice

package control

import (
	"sync/atomic"
	"time"

	"github.com/codewanderer42820/waitpkg/constants"
)

// Flags holds the hot/stop words and the activity clock.
type Flags struct {
	hot      atomic.Uint32
	stop     atomic.Uint32
	lastHot  atomic.Int64
	cooldown int64
}

// New returns flags that go cold after cooldown of silence.
func New(cooldown time.Duration) *Flags {
	return &Flags{cooldown: int64(cooldown)}
}

// SignalActivity marks the producer as active.
//
//go:nosplit
//go:inline
func (f *Flags) SignalActivity() {
	f.lastHot.Store(time.Now().UnixNano())
	f.hot.Store(1)
}

// PollCooldown clears the hot flag once the producer has been quiet long enough.
//
//go:nosplit
//go:inline
func (f *Flags) PollCooldown() {
	if f.hot.Load() == 1 && time.Now().UnixNano()-f.lastHot.Load() > f.cooldown {
		f.hot.Store(0)
	}
}

// Hot reports recent producer activity.
//
//go:nosplit
//go:inline
func (f *Flags) Hot() bool {
	return f.hot.Load() == 1
}

// Shutdown asks every consumer sharing f to exit.
func (f *Flags) Shutdown() {
	f.stop.Store(1)
}

// Stopped reports whether Shutdown was called.
//
//go:nosplit
//go:inline
func (f *Flags) Stopped() bool {
	return f.stop.Load() != 0
}

// ============================================================================
// PROCESS-WIDE FLAGS
// ============================================================================

var global = New(constants.Cooldown)

// Global returns the process-wide flags used when callers do not supply their own.
func Global() *Flags { return global }

// SignalActivity marks the process-wide producer as active.
func SignalActivity() { global.SignalActivity() }

// PollCooldown applies the cooldown to the process-wide flags.
func PollCooldown() { global.PollCooldown() }

// Shutdown stops every consumer using the process-wide flags.
func Shutdown() { global.Shutdown() }
