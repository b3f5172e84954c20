//go:build linux

package doorbell

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OpenAt maps dir/name. The file is sized to one page on creation.
func OpenAt(dir, name string, create bool) (*Doorbell, error) {
	path := filepath.Join(dir, name)
	size := unix.Getpagesize()

	flags := unix.O_RDWR | unix.O_CLOEXEC
	if create {
		flags |= unix.O_CREAT
	}
	fd, err := unix.Open(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("doorbell: open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("doorbell: fstat %s: %w", path, err)
	}
	// Touching a mapped page past EOF raises SIGBUS, so the word must be backed.
	if st.Size < wordSize {
		if !create {
			return nil, fmt.Errorf("doorbell: %s is %d bytes: %w", path, st.Size, ErrShortFile)
		}
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			return nil, fmt.Errorf("doorbell: ftruncate %s: %w", path, err)
		}
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("doorbell: mmap %s: %w", path, err)
	}
	return &Doorbell{
		mem:  mem,
		word: (*uint64)(unsafe.Pointer(&mem[0])),
		path: path,
	}, nil
}

// Close unmaps the doorbell. The backing file stays for other processes.
func (d *Doorbell) Close() error {
	if d.mem == nil {
		return nil
	}
	err := unix.Munmap(d.mem)
	d.mem, d.word = nil, nil
	if err != nil {
		return fmt.Errorf("doorbell: munmap %s: %w", d.path, err)
	}
	return nil
}

// Remove deletes the backing file of dir/name.
func Remove(dir, name string) error {
	if err := unix.Unlink(filepath.Join(dir, name)); err != nil && err != unix.ENOENT {
		return fmt.Errorf("doorbell: unlink: %w", err)
	}
	return nil
}
