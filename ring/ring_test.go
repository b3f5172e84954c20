// ============================================================================
// MONITORABLE RING CORRECTNESS SUITE
// ============================================================================
//
// Test categories:
//   - Layout: one slot per cache line, cursors on separate lines
//   - Constructor validation
//   - Push/Pop semantics, capacity, wraparound
//   - PopWait across goroutines with both waiter modes

package ring

import (
	"fmt"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewanderer42820/waitpkg/constants"
	"github.com/codewanderer42820/waitpkg/idle"
	"github.com/codewanderer42820/waitpkg/waitpkg"
)

// ============================================================================
// TEST UTILITIES AND HELPERS
// ============================================================================

func payload(seed byte) *[PayloadSize]byte {
	p := &[PayloadSize]byte{}
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}

func waiters(t *testing.T) map[string]*idle.Waiter {
	t.Helper()
	ws := map[string]*idle.Waiter{
		"fallback": idle.NewWithToken(waitpkg.Token{}, idle.DefaultPolicy()),
	}
	if tok, ok := waitpkg.Detect(); ok {
		ws["umwait"] = idle.NewWithToken(tok, idle.DefaultPolicy())
	}
	return ws
}

// ============================================================================
// LAYOUT
// ============================================================================

func TestSlotIsOneCacheLine(t *testing.T) {
	assert.Equal(t, uintptr(constants.CacheLine), unsafe.Sizeof(slot{}))
	assert.Equal(t, uintptr(PayloadSize), unsafe.Offsetof(slot{}.seq))
}

func TestCursorsOnSeparateLines(t *testing.T) {
	var r Ring
	gap := unsafe.Offsetof(r.tail) - unsafe.Offsetof(r.head)
	assert.GreaterOrEqual(t, gap, uintptr(constants.CacheLine))
}

func TestSlotsAreLineAligned(t *testing.T) {
	for _, size := range []int{1, 2, 16, 1024} {
		r := New(size)
		assert.Zero(t, uintptr(unsafe.Pointer(&r.buf[0]))%constants.CacheLine, "size %d", size)
	}
}

// ============================================================================
// CONSTRUCTOR VALIDATION
// ============================================================================

func TestNewValidSizes(t *testing.T) {
	for _, size := range []int{1, 2, 4, 64, 1024} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			r := New(size)
			assert.Equal(t, size, r.Cap())
			assert.Equal(t, uint64(size-1), r.mask)
			for i := range r.buf {
				assert.Equal(t, uint64(i), r.buf[i].seq)
			}
		})
	}
}

func TestNewPanicsOnInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, 3, 1000, 1025} {
		assert.Panics(t, func() { New(size) }, "size %d", size)
	}
}

// ============================================================================
// BASIC OPERATIONS
// ============================================================================

func TestPushPopRoundTrip(t *testing.T) {
	r := New(8)
	want := payload(1)

	require.True(t, r.Push(want))
	assert.Equal(t, 1, r.Len())

	got := r.Pop()
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)
	assert.Nil(t, r.Pop())
	assert.Zero(t, r.Len())
}

func TestPushFailsWhenFull(t *testing.T) {
	r := New(4)
	for i := 0; i < 4; i++ {
		require.True(t, r.Push(payload(byte(i))))
	}
	assert.False(t, r.Push(payload(9)))
	assert.Equal(t, 4, r.Len())

	require.NotNil(t, r.Pop())
	assert.True(t, r.Push(payload(9)))
}

func TestWraparoundPreservesOrder(t *testing.T) {
	r := New(4)
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			require.True(t, r.Push(payload(byte(round*3+i))))
		}
		for i := 0; i < 3; i++ {
			got := r.Pop()
			require.NotNil(t, got)
			assert.Equal(t, *payload(byte(round*3 + i)), *got)
		}
	}
}

func TestNextTracksHead(t *testing.T) {
	r := New(2)
	seq, empty := r.next()
	assert.Equal(t, uint64(0), empty)
	assert.Equal(t, empty, *seq)

	require.True(t, r.Push(payload(0)))
	assert.Equal(t, empty+1, *seq)

	require.NotNil(t, r.Pop())
	seq, empty = r.next()
	assert.Equal(t, uint64(1), empty)
	assert.Equal(t, empty, *seq)
}

// ============================================================================
// CROSS-GOROUTINE
// ============================================================================

func TestPopWaitBlocksUntilItem(t *testing.T) {
	for name, w := range waiters(t) {
		t.Run(name, func(t *testing.T) {
			r := New(8)
			want := payload(5)
			go func() {
				time.Sleep(5 * time.Millisecond)
				r.Push(want)
			}()
			got := r.PopWait(w)
			require.NotNil(t, got)
			assert.Equal(t, *want, *got)
		})
	}
}

func TestPopWaitStream(t *testing.T) {
	const n = 10_000
	for name, w := range waiters(t) {
		t.Run(name, func(t *testing.T) {
			r := New(64)
			go func() {
				for i := 0; i < n; i++ {
					p := payload(byte(i))
					for !r.Push(p) {
						idle.Relax()
					}
				}
			}()
			for i := 0; i < n; i++ {
				got := r.PopWait(w)
				require.Equal(t, byte(i), got[0])
			}
		})
	}
}
