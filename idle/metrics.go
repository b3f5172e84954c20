package idle

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewanderer42820/waitpkg/waitpkg"
)

// Wait outcome labels.
const (
	OutcomeChanged   = "changed"
	OutcomeDeadline  = "deadline"
	OutcomeOSTimeout = "os_timeout"
	OutcomeSpurious  = "spurious"
)

var waitOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "waitpkg",
		Name:      "wait_total",
		Help:      "Timed waits by instruction and the reason they ended.",
	},
	[]string{"op", "outcome"},
)

// Resolved once so the wait path never hashes label values.
var (
	umwaitChanged   = waitOutcomes.WithLabelValues("umwait", OutcomeChanged)
	umwaitDeadline  = waitOutcomes.WithLabelValues("umwait", OutcomeDeadline)
	umwaitOSTimeout = waitOutcomes.WithLabelValues("umwait", OutcomeOSTimeout)
	umwaitSpurious  = waitOutcomes.WithLabelValues("umwait", OutcomeSpurious)
	tpauseDeadline  = waitOutcomes.WithLabelValues("tpause", OutcomeDeadline)
	tpauseOSTimeout = waitOutcomes.WithLabelValues("tpause", OutcomeOSTimeout)
	tpauseSpurious  = waitOutcomes.WithLabelValues("tpause", OutcomeSpurious)
)

// classify names why a timed wait returned. A clear carry flag with the word
// unchanged only counts as a deadline once the counter has reached it; before
// that the wakeup was an interrupt or a spurious monitor trigger.
func classify(cf uint8, changed bool, now, deadline uint64) string {
	switch {
	case waitpkg.OSTimeout(cf):
		return OutcomeOSTimeout
	case changed:
		return OutcomeChanged
	case now >= deadline:
		return OutcomeDeadline
	default:
		return OutcomeSpurious
	}
}

func countUmwait(outcome string) {
	switch outcome {
	case OutcomeChanged:
		umwaitChanged.Inc()
	case OutcomeDeadline:
		umwaitDeadline.Inc()
	case OutcomeOSTimeout:
		umwaitOSTimeout.Inc()
	default:
		umwaitSpurious.Inc()
	}
}

func countTpause(outcome string) {
	switch outcome {
	case OutcomeDeadline:
		tpauseDeadline.Inc()
	case OutcomeOSTimeout:
		tpauseOSTimeout.Inc()
	default:
		tpauseSpurious.Inc()
	}
}

// Register exposes the wait counters on reg.
func Register(reg prometheus.Registerer) error {
	return reg.Register(waitOutcomes)
}
