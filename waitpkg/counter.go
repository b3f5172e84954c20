package waitpkg

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// DEADLINE MARSHALING
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// SplitCounter breaks an absolute TSC deadline into the EDX:EAX halves that
// UMWAIT and TPAUSE read their deadline from.
//
//go:nosplit
//go:inline
func SplitCounter(deadline uint64) (hi, lo uint32) {
	return uint32(deadline >> 32), uint32(deadline)
}

// JoinCounter is the inverse of SplitCounter.
//
//go:nosplit
//go:inline
func JoinCounter(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}
