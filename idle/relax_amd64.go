// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - AMD64 Architecture
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: x86-64 Spin-Wait Hint
//
// Description:
//   PAUSE between polls. It is the step before a waiter escalates to a
//   monitor-based UMWAIT, and the only hint available on parts without WAITPKG.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build amd64 && !noasm

package idle

// Relax executes PAUSE.
// Implemented in relax_amd64.s
//
//go:noescape
func Relax()
