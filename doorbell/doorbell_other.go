//go:build !linux

package doorbell

// OpenAt is not implemented off Linux.
func OpenAt(dir, name string, create bool) (*Doorbell, error) {
	return nil, ErrUnsupported
}

// Close is a no-op off Linux.
func (d *Doorbell) Close() error { return nil }

// Remove is not implemented off Linux.
func Remove(dir, name string) error { return ErrUnsupported }
