// ============================================================================
// WAITPKG BRIDGE VALIDATION SUITE
// ============================================================================
//
// Forwarding and marshaling checks run against recording primitives, so they
// pass on any machine. The hardware suite at the bottom only runs where
// Detect succeeds.

package waitpkg

import (
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST UTILITIES AND HELPERS
// ============================================================================

type call struct {
	ctrl, hi, lo uint32
}

// recorder swaps the primitives for fakes and restores them on cleanup.
type recorder struct {
	monitored []uintptr
	waits     []call
	pauses    []call
	ret       uint8
}

func record(t *testing.T, ret uint8) *recorder {
	t.Helper()
	r := &recorder{ret: ret}
	m, w, p := monitorFn, waitFn, pauseFn
	t.Cleanup(func() { monitorFn, waitFn, pauseFn = m, w, p })

	monitorFn = func(addr unsafe.Pointer) { r.monitored = append(r.monitored, uintptr(addr)) }
	waitFn = func(ctrl, hi, lo uint32) uint8 {
		r.waits = append(r.waits, call{ctrl, hi, lo})
		return r.ret
	}
	pauseFn = func(ctrl, hi, lo uint32) uint8 {
		r.pauses = append(r.pauses, call{ctrl, hi, lo})
		return r.ret
	}
	return r
}

var granted = Token{valid: true}

// ============================================================================
// COUNTER SPLITTING
// ============================================================================

func TestSplitCounterRoundTrip(t *testing.T) {
	roundTrip := func(d uint64) bool {
		return JoinCounter(SplitCounter(d)) == d
	}
	require.NoError(t, quick.Check(roundTrip, &quick.Config{MaxCount: 10000}))
}

func TestSplitCounterHalves(t *testing.T) {
	cases := []struct {
		name   string
		in     uint64
		hi, lo uint32
	}{
		{"zero", 0, 0, 0},
		{"one_above_4g", 0x1_0000_0001, 1, 1},
		{"low_only", 0xFFFF_FFFF, 0, 0xFFFF_FFFF},
		{"high_only", 0xFFFF_FFFF_0000_0000, 0xFFFF_FFFF, 0},
		{"max", ^uint64(0), 0xFFFF_FFFF, 0xFFFF_FFFF},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hi, lo := SplitCounter(c.in)
			assert.Equal(t, c.hi, hi)
			assert.Equal(t, c.lo, lo)
		})
	}
}

// ============================================================================
// FORWARDING
// ============================================================================

func TestUmwaitForwardsSplitDeadline(t *testing.T) {
	r := record(t, 0)
	granted.Umwait(C02, 0x1_0000_0001)
	require.Len(t, r.waits, 1)
	assert.Equal(t, call{0, 1, 1}, r.waits[0])
	assert.Empty(t, r.pauses)
}

func TestTpauseForwardsZeroDeadline(t *testing.T) {
	r := record(t, 0)
	granted.Tpause(C02, 0)
	require.Len(t, r.pauses, 1)
	assert.Equal(t, call{0, 0, 0}, r.pauses[0])
	assert.Empty(t, r.waits)
}

func TestCtrlPassesThroughUnchanged(t *testing.T) {
	for _, ctrl := range []Ctrl{C02, C01, 0xFFFF_FFFE, 0xFFFF_FFFF} {
		r := record(t, 0)
		granted.Umwait(ctrl, 42)
		granted.Tpause(ctrl, 42)
		require.Len(t, r.waits, 1)
		require.Len(t, r.pauses, 1)
		assert.Equal(t, uint32(ctrl), r.waits[0].ctrl)
		assert.Equal(t, uint32(ctrl), r.pauses[0].ctrl)
	}
}

func TestCarryFlagPassesThrough(t *testing.T) {
	for _, cf := range []uint8{0, 1, 0x80, 0xFF} {
		record(t, cf)
		assert.Equal(t, cf, granted.Umwait(C01, 7))
		assert.Equal(t, cf, granted.Tpause(C01, 7))
	}
	assert.True(t, OSTimeout(CarrySet))
	assert.False(t, OSTimeout(0))
}

func TestUmonitorForwardsAddressOpaquely(t *testing.T) {
	r := record(t, 0)

	words := new([4]uint64)
	granted.Umonitor(unsafe.Pointer(&words[2]))
	Monitor(granted, &words[3])

	// Zero-sized referent: anything but an address pass-through would fault or differ.
	empty := new(struct{})
	Monitor(granted, empty)

	require.Len(t, r.monitored, 3)
	assert.Equal(t, uintptr(unsafe.Pointer(&words[2])), r.monitored[0])
	assert.Equal(t, uintptr(unsafe.Pointer(&words[3])), r.monitored[1])
	assert.Equal(t, uintptr(unsafe.Pointer(empty)), r.monitored[2])
	assert.Equal(t, [4]uint64{}, *words)
}

// growStack recurses deep enough to force the goroutine stack to be copied.
//
//go:noinline
func growStack(depth int) int {
	var pad [256]byte
	pad[depth%len(pad)] = byte(depth)
	if depth == 0 {
		return int(pad[0])
	}
	return growStack(depth-1) + int(pad[depth%len(pad)])
}

func TestMonitoredLocalSurvivesStackGrowth(t *testing.T) {
	r := record(t, 0)

	// Declared as a local: arming it must move it off the stack.
	var word uint64
	Monitor(granted, &word)
	growStack(4096)

	require.Len(t, r.monitored, 1)
	assert.Equal(t, uintptr(unsafe.Pointer(&word)), r.monitored[0])
}

func TestZeroTokenIsRejected(t *testing.T) {
	r := record(t, 0)
	var tok Token
	assert.False(t, tok.Valid())
	assert.PanicsWithValue(t, ErrUnsupported, func() { tok.Umwait(C01, 1) })
	assert.PanicsWithValue(t, ErrUnsupported, func() { tok.Tpause(C01, 1) })
	assert.PanicsWithValue(t, ErrUnsupported, func() { tok.Umonitor(nil) })
	assert.Empty(t, r.monitored)
	assert.Empty(t, r.waits)
	assert.Empty(t, r.pauses)
}

func TestDetectIsStable(t *testing.T) {
	a, okA := Detect()
	b, okB := Detect()
	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)
	assert.Equal(t, okA, a.Valid())
	if !okA {
		assert.PanicsWithValue(t, ErrUnsupported, func() { MustDetect() })
	}
}

// ============================================================================
// HARDWARE
// ============================================================================

func TestTpauseOnHardware(t *testing.T) {
	tok, ok := Detect()
	if !ok {
		t.Skip("WAITPKG not available")
	}
	// A deadline in the past returns immediately.
	cf := tok.Tpause(C01, 0)
	assert.LessOrEqual(t, cf, CarrySet)
}

func TestUmwaitOnHardware(t *testing.T) {
	tok, ok := Detect()
	if !ok {
		t.Skip("WAITPKG not available")
	}
	word := new(uint64)
	Monitor(tok, word)
	cf := tok.Umwait(C01, 0)
	assert.LessOrEqual(t, cf, CarrySet)
}
