//go:build !amd64 || noasm

package tsc

import "time"

var epoch = time.Now()

// rdtsc falls back to monotonic nanoseconds since process start.
func rdtsc() uint64 {
	return uint64(time.Since(epoch).Nanoseconds())
}
