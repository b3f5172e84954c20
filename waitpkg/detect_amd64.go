//go:build amd64 && !noasm

package waitpkg

import (
	"unsafe"

	"github.com/klauspost/cpuid/v2"
)

// supported reports CPUID.(EAX=07H,ECX=0):ECX[bit 5].
func supported() bool {
	return cpuid.CPU.Supports(cpuid.WAITPKG)
}

// umonitor executes UMONITOR with addr in RCX. No //go:noescape: the
// referent has to escape so it never sits on a movable stack.
// Implemented in waitpkg_amd64.s
func umonitor(addr unsafe.Pointer)

// umwait executes UMWAIT with ctrl in ECX and the deadline in EDX:EAX.
// Implemented in waitpkg_amd64.s
//
//go:noescape
func umwait(ctrl, hi, lo uint32) uint8

// tpause executes TPAUSE with ctrl in ECX and the deadline in EDX:EAX.
// Implemented in waitpkg_amd64.s
//
//go:noescape
func tpause(ctrl, hi, lo uint32) uint8
