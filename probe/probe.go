// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: probe.go — Host capability report
//
// Purpose:
//   - Collects what decides how waits behave on this host: WAITPKG support,
//     the kernel's umwait limits, and the TSC rate
//   - Produces a stable host fingerprint to key stored trial results
// ─────────────────────────────────────────────────────────────────────────────

package probe

import (
	"encoding/hex"
	"strconv"

	"github.com/klauspost/cpuid/v2"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"

	"github.com/codewanderer42820/waitpkg/tsc"
	"github.com/codewanderer42820/waitpkg/umwaitctl"
	"github.com/codewanderer42820/waitpkg/waitpkg"
)

// Control is the JSON form of umwaitctl.Control.
type Control struct {
	MaxTime   uint64 `json:"max_time"`
	EnableC02 bool   `json:"enable_c02"`
}

// Report describes the host.
type Report struct {
	Vendor        string   `json:"vendor"`
	Brand         string   `json:"brand"`
	Family        int      `json:"family"`
	Model         int      `json:"model"`
	LogicalCores  int      `json:"logical_cores"`
	CacheLine     int      `json:"cache_line"`
	Waitpkg       bool     `json:"waitpkg"`
	UmwaitControl *Control `json:"umwait_control,omitempty"`
	TSCHz         uint64   `json:"tsc_hz"`
	Fingerprint   string   `json:"fingerprint"`
}

// Collect builds a Report using clock for the TSC rate.
func Collect(clock tsc.Clock) Report {
	_, ok := waitpkg.Detect()
	r := Report{
		Vendor:       cpuid.CPU.VendorString,
		Brand:        cpuid.CPU.BrandName,
		Family:       cpuid.CPU.Family,
		Model:        cpuid.CPU.Model,
		LogicalCores: cpuid.CPU.LogicalCores,
		CacheLine:    cpuid.CPU.CacheLine,
		Waitpkg:      ok,
		TSCHz:        clock.Hz(),
	}
	if ctl, err := umwaitctl.ReadSystem(); err == nil {
		r.UmwaitControl = &Control{MaxTime: ctl.MaxTime, EnableC02: ctl.EnableC02}
	}
	r.Fingerprint = Fingerprint(r)
	return r
}

// Fingerprint hashes the identity fields of r. Rates and kernel knobs are
// excluded so the value survives reboots and retuning.
func Fingerprint(r Report) string {
	id := r.Vendor + "|" + r.Brand + "|" +
		strconv.Itoa(r.Family) + "|" + strconv.Itoa(r.Model) + "|" +
		strconv.Itoa(r.LogicalCores) + "|" + strconv.FormatBool(r.Waitpkg)
	sum := sha3.Sum256([]byte(id))
	return hex.EncodeToString(sum[:16])
}

// JSON encodes r.
func (r Report) JSON() ([]byte, error) {
	return sonnet.Marshal(r)
}

// Parse decodes a Report produced by JSON.
func Parse(b []byte) (Report, error) {
	var r Report
	err := sonnet.Unmarshal(b, &r)
	return r, err
}
