//go:build !amd64 || noasm

package waitpkg

import "unsafe"

// Fallback for targets without WAITPKG. Detect never succeeds here, so the
// stubs below are only reachable through a hand-built Token in tests.

func supported() bool { return false }

func umonitor(addr unsafe.Pointer) { panic(ErrUnsupported) }

func umwait(ctrl, hi, lo uint32) uint8 { panic(ErrUnsupported) }

func tpause(ctrl, hi, lo uint32) uint8 { panic(ErrUnsupported) }
