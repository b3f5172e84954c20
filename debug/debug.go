// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostic logging (zero-fmt)
//
// Purpose:
//   - Reports detection results, calibration, and probe failures
//   - Never used between an Umonitor and its Umwait
//
// Notes:
//   - String concatenation only; no fmt, no interfaces beyond error
//   - One line per call, "<prefix>: <message>"
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "github.com/codewanderer42820/waitpkg/utils"

// DropError logs "<prefix>: <err>" to stderr, or just the prefix when err is nil.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs "<prefix>: <message>" to stderr.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
