// setaffinity_linux.go - Linux CPU affinity via sched_setaffinity(2)

//go:build linux

package ring

import (
	"golang.org/x/sys/unix"

	"github.com/codewanderer42820/waitpkg/debug"
	"github.com/codewanderer42820/waitpkg/utils"
)

// setAffinity pins the current thread to cpu. Negative cores are ignored.
func setAffinity(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		debug.DropError("AFFINITY core "+utils.Itoa(cpu), err)
	}
}
