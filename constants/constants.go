// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Wait tunables and system paths
//
// Purpose:
//   - Spin/relax/wait thresholds shared by idle and ring
//   - Default budgets for timed waits and probe trials
//
// Notes:
//   - Cycle budgets are TSC quanta, not nanoseconds
//   - The kernel's default umwait max_time is 100000 quanta; budgets stay below it
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

import "time"

// ───────────────────────────── Spin & Relax ──────────────────────────────

const (
	// SpinBudget is the number of failed polls before a waiter starts relaxing.
	SpinBudget = 224

	// RelaxBudget is the number of PAUSE-relaxed polls before a timed wait.
	RelaxBudget = 64

	// HotWindow keeps a consumer spinning after its last message.
	HotWindow = 5 * time.Second

	// Cooldown clears the hot flag after this much producer silence.
	Cooldown = 1 * time.Second
)

// ───────────────────────────── Timed Waits ───────────────────────────────

const (
	// WaitBudgetCycles bounds a single UMWAIT slice.
	WaitBudgetCycles = 50_000

	// CalibrationWindow is how long the TSC rate is sampled.
	CalibrationWindow = 10 * time.Millisecond
)

// ───────────────────────────── Ring Layout ───────────────────────────────

// CacheLine is the monitor granularity on every WAITPKG part.
const CacheLine = 64

// ───────────────────────────── System & Probe ────────────────────────────

const (
	// UmwaitControlRoot holds the kernel's IA32_UMWAIT_CONTROL knobs.
	UmwaitControlRoot = "/sys/devices/system/cpu/umwait_control"

	// DefaultDBPath is where waitprobe keeps its trial history.
	DefaultDBPath = "waitprobe.db"

	// DefaultTrials is the per-op sample count for waitprobe.
	DefaultTrials = 64
)
