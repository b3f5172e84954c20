// ════════════════════════════════════════════════════════════════════════════════════════════════
// WAITPKG INSTRUCTION BRIDGE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: waitpkg
// Component: UMONITOR / UMWAIT / TPAUSE forwarding
//
// Description:
//   Thin wrappers over the user-level monitor/wait instructions introduced with the
//   x86 WAITPKG extension. Each wrapper marshals its arguments and forwards to one
//   assembly primitive. Nothing here keeps state.
//
// Gating:
//   - Every operation is a method on Token
//   - A usable Token only comes out of Detect / MustDetect
//   - Calling through a zero Token panics with ErrUnsupported
//
// Blocking:
//   - Umwait and Tpause park the calling OS thread, not the goroutine
//   - The monitor is per logical core: lock the goroutine to its thread
//     (runtime.LockOSThread) across an Umonitor/Umwait pair
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package waitpkg

import (
	"errors"
	"sync"
	"unsafe"
)

// ErrUnsupported is raised when the processor (or the build) lacks WAITPKG.
var ErrUnsupported = errors.New("waitpkg: instructions not supported on this processor")

// Ctrl is the control operand of UMWAIT and TPAUSE. Only bit 0 is defined.
type Ctrl uint32

const (
	// C02 requests the deeper C0.2 state: lower power, slower wakeup.
	C02 Ctrl = 0

	// C01 requests the lighter C0.1 state: faster wakeup.
	C01 Ctrl = 1
)

// CarrySet is the carry flag value reported when the wait ended because the
// operating system time limit (IA32_UMWAIT_CONTROL) expired.
const CarrySet uint8 = 1

// OSTimeout reports whether a carry flag returned by Umwait or Tpause means the
// OS time limit cut the wait short.
//
//go:nosplit
//go:inline
func OSTimeout(cf uint8) bool {
	return cf == CarrySet
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PRIMITIVES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Indirection over the assembly stubs so the marshaling can be observed
// without the instructions being present.
var (
	monitorFn func(addr unsafe.Pointer)       = umonitor
	waitFn    func(ctrl, hi, lo uint32) uint8 = umwait
	pauseFn   func(ctrl, hi, lo uint32) uint8 = tpause
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CAPABILITY TOKEN
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Token proves WAITPKG support was confirmed. Obtain one from Detect.
type Token struct {
	valid bool
}

var (
	detectOnce sync.Once
	detected   bool
)

// Detect checks CPUID once and hands out a Token when the instructions are usable.
func Detect() (Token, bool) {
	detectOnce.Do(func() {
		detected = supported()
	})
	return Token{valid: detected}, detected
}

// MustDetect is Detect for callers that cannot run without WAITPKG.
func MustDetect() Token {
	tok, ok := Detect()
	if !ok {
		panic(ErrUnsupported)
	}
	return tok
}

// Valid reports whether the token came from a successful detection.
func (t Token) Valid() bool {
	return t.valid
}

//go:nosplit
func (t Token) check() {
	if !t.valid {
		panic(ErrUnsupported)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Umonitor arms the address-monitoring hardware on the cache line holding addr.
// The address is never dereferenced. Passing it on forces the referent to the
// heap, so the armed line cannot move with a growing stack. It should be
// writeback memory.
func (t Token) Umonitor(addr unsafe.Pointer) {
	t.check()
	monitorFn(addr)
}

// Umwait parks the logical core in an optimized state until the armed monitor
// fires or the TSC reaches deadline. The return value is the carry flag:
// CarrySet when the OS time limit expired first, 0 otherwise.
func (t Token) Umwait(ctrl Ctrl, deadline uint64) uint8 {
	t.check()
	hi, lo := SplitCounter(deadline)
	return waitFn(uint32(ctrl), hi, lo)
}

// Tpause parks the logical core until the TSC reaches deadline. No monitor is
// involved. The carry flag has the same meaning as for Umwait.
func (t Token) Tpause(ctrl Ctrl, deadline uint64) uint8 {
	t.check()
	hi, lo := SplitCounter(deadline)
	return pauseFn(uint32(ctrl), hi, lo)
}

// Monitor arms the monitor on the value p points to.
func Monitor[T any](t Token, p *T) {
	t.Umonitor(unsafe.Pointer(p))
}
