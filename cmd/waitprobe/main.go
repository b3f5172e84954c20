// ════════════════════════════════════════════════════════════════════════════════════════════════
// waitprobe - WAITPKG capability report and wait-latency trials
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Description:
//   Prints a JSON capability report for the host, then (when WAITPKG is
//   present) times batches of TPAUSE/UMWAIT waits and stores every sample in a
//   SQLite database keyed by host fingerprint.
//
// Phases:
//   - Phase 0: flag validation, independent of the host
//   - Phase 1: CPUID, umwait_control and TSC calibration
//   - Phase 2: Trials per op, recorded and summarized
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"errors"
	"flag"
	"math"
	"os"

	"github.com/codewanderer42820/waitpkg/constants"
	"github.com/codewanderer42820/waitpkg/debug"
	"github.com/codewanderer42820/waitpkg/probe"
	"github.com/codewanderer42820/waitpkg/trialdb"
	"github.com/codewanderer42820/waitpkg/tsc"
	"github.com/codewanderer42820/waitpkg/umwaitctl"
	"github.com/codewanderer42820/waitpkg/utils"
	"github.com/codewanderer42820/waitpkg/waitpkg"
)

var (
	errBadTrials = errors.New("waitprobe: -trials must be at least 1")
	errBadCtrl   = errors.New("waitprobe: -ctrl does not fit in 32 bits")
)

// config is the validated command line.
type config struct {
	dbPath     string
	trials     int
	budget     uint64
	ctrl       waitpkg.Ctrl
	ops        []probe.Op
	reportOnly bool
}

// parseConfig parses and validates args (without the program name).
func parseConfig(args []string) (config, error) {
	fs := flag.NewFlagSet("waitprobe", flag.ContinueOnError)
	var (
		dbPath     = fs.String("db", constants.DefaultDBPath, "SQLite database for trial samples")
		trials     = fs.Int("trials", constants.DefaultTrials, "waits per op")
		budget     = fs.Uint64("budget", constants.WaitBudgetCycles, "TSC cycles per wait")
		ctrl       = fs.Uint64("ctrl", uint64(waitpkg.C01), "control operand: 0 = C0.2, 1 = C0.1")
		opFlag     = fs.String("op", "both", "tpause, umwait or both")
		reportOnly = fs.Bool("report-only", false, "print the capability report and exit")
	)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if *trials < 1 {
		return config{}, errBadTrials
	}
	if *ctrl > math.MaxUint32 {
		return config{}, errBadCtrl
	}
	ops, err := probe.ParseOps(*opFlag)
	if err != nil {
		return config{}, err
	}
	return config{
		dbPath:     *dbPath,
		trials:     *trials,
		budget:     *budget,
		ctrl:       waitpkg.Ctrl(*ctrl),
		ops:        ops,
		reportOnly: *reportOnly,
	}, nil
}

func main() {
	// PHASE 0: flags
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			debug.DropError("FLAGS", err)
		}
		os.Exit(2)
	}

	// PHASE 1: host capabilities
	clock := tsc.Default()
	report := probe.Collect(clock)
	js, err := report.JSON()
	if err != nil {
		debug.DropError("REPORT", err)
		os.Exit(1)
	}
	utils.PrintInfo(string(js) + "\n")

	if cfg.reportOnly {
		return
	}
	tok, ok := waitpkg.Detect()
	if !ok {
		debug.DropMessage("TRIALS", "WAITPKG not supported, skipping trials")
		return
	}

	if ctl, err := umwaitctl.ReadSystem(); err == nil && ctl.Clamp(cfg.budget) != cfg.budget {
		debug.DropMessage("TRIALS", "budget exceeds umwait max_time "+utils.Hex64(ctl.MaxTime)+", expect OS timeouts")
	}

	// PHASE 2: trials
	store, err := trialdb.Open(cfg.dbPath)
	if err != nil {
		debug.DropError("DB", err)
		os.Exit(1)
	}
	defer store.Close()

	for _, op := range cfg.ops {
		st, run, err := runTrials(store, tok, report.Fingerprint, op, cfg.ctrl, cfg.budget, cfg.trials)
		if err != nil {
			debug.DropError("TRIAL "+string(op), err)
			continue
		}
		utils.PrintInfo(summaryLine(op, run, st, clock))
	}
}

// runTrials measures n waits and stores them as one run. Nothing is stored
// when the measurement itself fails.
func runTrials(store *trialdb.Store, tok waitpkg.Token, fingerprint string, op probe.Op, ctrl waitpkg.Ctrl, budget uint64, n int) (trialdb.Stats, trialdb.Run, error) {
	samples, err := probe.Measure(tok, op, ctrl, budget, n)
	if err != nil {
		return trialdb.Stats{}, trialdb.Run{}, err
	}
	run, err := store.BeginRun(trialdb.Run{
		Fingerprint: fingerprint,
		Op:          string(op),
		Ctrl:        uint32(ctrl),
		Budget:      budget,
	})
	if err != nil {
		return trialdb.Stats{}, trialdb.Run{}, err
	}
	if err := store.Record(run.ID, samples...); err != nil {
		return trialdb.Stats{}, run, err
	}
	st, err := store.Summary(run.ID)
	return st, run, err
}

func summaryLine(op probe.Op, run trialdb.Run, st trialdb.Stats, clock tsc.Clock) string {
	return string(op) + " run " + run.ID +
		": n=" + utils.Itoa(st.Count) +
		" min=" + utils.Utoa(st.MinCycles) +
		" max=" + utils.Utoa(st.MaxCycles) +
		" mean=" + utils.Utoa(uint64(st.MeanCycles)) + " cycles" +
		" (~" + clock.Duration(uint64(st.MeanCycles)).String() + ")" +
		" os_timeouts=" + utils.Itoa(st.OSTimeouts) + "\n"
}
