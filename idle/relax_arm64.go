// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - ARM64 Architecture
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: ARM64 Spin-Wait Hint
//
// Description:
//   YIELD between polls. There is no WAITPKG on arm64, so waiters never get
//   past this step and fall back to the scheduler.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build arm64 && !noasm

package idle

// Relax executes YIELD.
// Implemented in relax_arm64.s
//
//go:noescape
func Relax()
