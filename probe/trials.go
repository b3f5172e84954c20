package probe

import (
	"errors"
	"runtime"

	"github.com/codewanderer42820/waitpkg/trialdb"
	"github.com/codewanderer42820/waitpkg/tsc"
	"github.com/codewanderer42820/waitpkg/waitpkg"
)

// Op names a timed-wait instruction.
type Op string

const (
	OpTpause Op = "tpause"
	OpUmwait Op = "umwait"
)

// ErrUnknownOp is returned for an Op other than OpTpause or OpUmwait.
var ErrUnknownOp = errors.New("probe: unknown op")

// ErrBadCount is returned for a negative trial count.
var ErrBadCount = errors.New("probe: trial count must not be negative")

// ParseOps expands a -op flag value.
func ParseOps(s string) ([]Op, error) {
	switch s {
	case "tpause":
		return []Op{OpTpause}, nil
	case "umwait":
		return []Op{OpUmwait}, nil
	case "both":
		return []Op{OpTpause, OpUmwait}, nil
	}
	return nil, ErrUnknownOp
}

// Measure runs n waits of budget cycles each and reports how long each took.
// UMWAIT trials monitor a private word nobody writes, so they end on the
// deadline, the OS limit, or a spurious wakeup.
func Measure(tok waitpkg.Token, op Op, ctrl waitpkg.Ctrl, budget uint64, n int) ([]trialdb.Sample, error) {
	if op != OpTpause && op != OpUmwait {
		return nil, ErrUnknownOp
	}
	if n < 0 {
		return nil, ErrBadCount
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	word := new(uint64)
	out := make([]trialdb.Sample, 0, n)
	for i := 0; i < n; i++ {
		start := tsc.Now()
		deadline := tsc.AddSat(start, budget)

		var cf uint8
		if op == OpUmwait {
			waitpkg.Monitor(tok, word)
			cf = tok.Umwait(ctrl, deadline)
		} else {
			cf = tok.Tpause(ctrl, deadline)
		}
		out = append(out, trialdb.Sample{
			Cycles:    tsc.Now() - start,
			OSTimeout: waitpkg.OSTimeout(cf),
		})
	}
	return out, nil
}
