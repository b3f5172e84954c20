//go:build linux

package umwaitctl

import "github.com/codewanderer42820/waitpkg/constants"

// ReadSystem loads the running kernel's limits.
func ReadSystem() (Control, error) {
	return Read(constants.UmwaitControlRoot)
}
