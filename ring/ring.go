// ============================================================================
// MONITORABLE SPSC RING
// ============================================================================
//
// Single-producer/single-consumer ring whose slots are exactly one cache line:
// a 56-byte payload followed by the slot's sequence word. The producer's
// publication is a single store into the line the consumer is armed on, so a
// consumer parked in UMWAIT wakes on the push itself.
//
// Sequence semantics:
//   - Empty slot for position p holds seq == p
//   - Producer publishes with seq = p + 1
//   - Consumer releases with seq = p + size
//
// Safety model:
//   - One producer goroutine, one consumer goroutine
//   - Pop results are valid until the next Pop

package ring

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/codewanderer42820/waitpkg/constants"
	"github.com/codewanderer42820/waitpkg/idle"
)

// PayloadSize is the bytes carried per slot.
const PayloadSize = 56

// slot fills one 64-byte line.
type slot struct {
	val [PayloadSize]byte
	seq uint64
}

// Either array length goes negative, and the build breaks, unless a slot is
// exactly one monitor line.
var (
	_ [constants.CacheLine - unsafe.Sizeof(slot{})]byte
	_ [unsafe.Sizeof(slot{}) - constants.CacheLine]byte
)

// Ring is a cache-line isolated SPSC queue.
type Ring struct {
	_    cpu.CacheLinePad
	head uint64 // consumer cursor
	_    cpu.CacheLinePad
	tail uint64 // producer cursor
	_    cpu.CacheLinePad

	mask uint64
	step uint64
	buf  []slot
}

// New creates a ring of size slots. size must be a positive power of two.
func New(size int) *Ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and power of two")
	}

	r := &Ring{
		mask: uint64(size - 1),
		step: uint64(size),
		buf:  make([]slot, size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Cap returns the slot count.
func (r *Ring) Cap() int { return len(r.buf) }

// Len returns the number of published, unconsumed slots. It is a snapshot
// when called from neither side.
func (r *Ring) Len() int {
	return int(atomic.LoadUint64(&r.tail) - atomic.LoadUint64(&r.head))
}

// Push copies val into the next slot. It returns false when the ring is full.
//
//go:norace
//go:nosplit
func (r *Ring) Push(val *[PayloadSize]byte) bool {
	t := r.tail
	s := &r.buf[t&r.mask]

	if atomic.LoadUint64(&s.seq) != t {
		return false
	}
	s.val = *val
	atomic.StoreUint64(&s.seq, t+1) // publish: this is the store a parked consumer wakes on
	atomic.StoreUint64(&r.tail, t+1)
	return true
}

// Pop returns the next payload or nil when the ring is empty.
//
//go:norace
//go:nosplit
func (r *Ring) Pop() *[PayloadSize]byte {
	h := r.head
	s := &r.buf[h&r.mask]

	if atomic.LoadUint64(&s.seq) != h+1 {
		return nil
	}
	val := &s.val
	atomic.StoreUint64(&s.seq, h+r.step)
	atomic.StoreUint64(&r.head, h+1)
	return val
}

// next returns the sequence word the consumer is waiting on and its empty value.
//
//go:nosplit
//go:inline
func (r *Ring) next() (*uint64, uint64) {
	h := r.head
	return &r.buf[h&r.mask].seq, h
}

// PopWait blocks until a payload is available, escalating through w's policy.
func (r *Ring) PopWait(w *idle.Waiter) *[PayloadSize]byte {
	for {
		if p := r.Pop(); p != nil {
			return p
		}
		seq, empty := r.next()
		w.WaitChange(seq, empty)
	}
}
