// Package umwaitctl reads the operating system limits placed on UMWAIT and TPAUSE.
//
// Linux exposes IA32_UMWAIT_CONTROL under
// /sys/devices/system/cpu/umwait_control. max_time is the longest stay, in TSC
// quanta, the kernel allows before forcing a wakeup with CF set; zero disables
// the limit. enable_c02 gates the deeper C0.2 state.
package umwaitctl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnavailable is returned when the control files are not present.
var ErrUnavailable = errors.New("umwaitctl: umwait_control not available")

// Control mirrors the two sysfs knobs.
type Control struct {
	MaxTime   uint64 // TSC quanta, 0 = unlimited
	EnableC02 bool
}

// C02Allowed reports whether a C0.2 request is honoured. When it is not the
// processor silently uses C0.1.
func (c Control) C02Allowed() bool { return c.EnableC02 }

// Clamp limits a wait budget to the OS time limit so a wait ending on the
// budget is not reported as an OS timeout.
func (c Control) Clamp(cycles uint64) uint64 {
	if c.MaxTime == 0 || cycles <= c.MaxTime {
		return cycles
	}
	return c.MaxTime
}

// Read loads the control files from root.
func Read(root string) (Control, error) {
	var c Control

	maxTime, err := readUint(filepath.Join(root, "max_time"))
	if err != nil {
		return c, err
	}
	c02, err := readUint(filepath.Join(root, "enable_c02"))
	if err != nil {
		return c, err
	}

	c.MaxTime = maxTime
	c.EnableC02 = c02 != 0
	return c, nil
}

func readUint(path string) (uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrUnavailable
		}
		return 0, fmt.Errorf("umwaitctl: read %s: %w", path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("umwaitctl: parse %s: %w", path, err)
	}
	return v, nil
}
