// setaffinity_stub.go - CPU affinity no-op where sched_setaffinity(2) is missing

//go:build !linux

package ring

// setAffinity does nothing; the thread stays wherever the OS puts it.
func setAffinity(cpu int) {}
