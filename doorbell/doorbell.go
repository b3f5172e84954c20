// Package doorbell is a cross-process wake word in shared memory.
//
// A doorbell is one page of a MAP_SHARED file mapping (tmpfs by default, so
// writeback cached). Its first 8 bytes count rings. Waiters in any process arm
// UMONITOR on that word and park until another process rings.
package doorbell

import (
	"errors"
	"sync/atomic"

	"github.com/codewanderer42820/waitpkg/idle"
)

// ErrUnsupported is returned where shared mappings are not implemented.
var ErrUnsupported = errors.New("doorbell: shared mappings not supported on this platform")

// ErrShortFile is returned when an existing backing file cannot hold the word,
// typically because its creator has not sized it yet.
var ErrShortFile = errors.New("doorbell: backing file too short")

// wordSize is the number of bytes that must be backed by the file.
const wordSize = 8

// DefaultDir is where doorbells live unless OpenAt names another directory.
const DefaultDir = "/dev/shm"

// Doorbell is a mapped wake word.
type Doorbell struct {
	mem  []byte
	word *uint64
	path string
}

// Open maps the doorbell name under DefaultDir, creating it when create is set.
func Open(name string, create bool) (*Doorbell, error) {
	return OpenAt(DefaultDir, name, create)
}

// Path returns the backing file.
func (d *Doorbell) Path() string { return d.path }

// Ring increments the word and returns the new count.
func (d *Doorbell) Ring() uint64 {
	return atomic.AddUint64(d.word, 1)
}

// Value returns the current count.
func (d *Doorbell) Value() uint64 {
	return atomic.LoadUint64(d.word)
}

// Wait blocks until the count differs from seen and returns it.
func (d *Doorbell) Wait(w *idle.Waiter, seen uint64) uint64 {
	return w.WaitChange(d.word, seen)
}
