//go:build amd64 && !noasm

package tsc

// rdtsc reads the CPU timestamp counter using RDTSC.
// Implemented in rdtsc_amd64.s
//
//go:noescape
func rdtsc() uint64
