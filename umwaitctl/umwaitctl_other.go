//go:build !linux

package umwaitctl

// ReadSystem has no source of limits outside Linux.
func ReadSystem() (Control, error) {
	return Control{}, ErrUnavailable
}
