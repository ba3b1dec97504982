//go:build linux

package mmio

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMem is a Memory backed by an mmap of a physical address window,
// normally through /dev/mem. Addresses are physical addresses.
type DevMem struct {
	base uint64
	data []byte
}

// OpenDevMem maps size bytes of path starting at physical address base.
// base must be page aligned.
func OpenDevMem(path string, base uint64, size int) (*DevMem, error) {
	if base%uint64(unix.Getpagesize()) != 0 {
		return nil, fmt.Errorf("map %s at %#x: %w: base not page aligned", path, base, ErrMisaligned)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	data, err := unix.Mmap(fd, int64(base), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s at %#x: %w", path, base, err)
	}
	return &DevMem{base: base, data: data}, nil
}

// Close unmaps the window.
func (m *DevMem) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

func (m *DevMem) ptr(op string, addr uint64, size int) (unsafe.Pointer, error) {
	if err := checkSize(size); err != nil {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: err}
	}
	if addr < m.base || addr-m.base+uint64(size) > uint64(len(m.data)) {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: ErrOutOfRange}
	}
	if addr%uint64(size) != 0 {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: ErrMisaligned}
	}
	return unsafe.Pointer(&m.data[addr-m.base]), nil
}

// Load reads size bytes at addr with a single access of that width.
func (m *DevMem) Load(addr uint64, size int) (uint64, error) {
	p, err := m.ptr("load", addr, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(*(*uint8)(p)), nil
	case 2:
		return uint64(*(*uint16)(p)), nil
	case 4:
		return uint64(atomic.LoadUint32((*uint32)(p))), nil
	default:
		return atomic.LoadUint64((*uint64)(p)), nil
	}
}

// Store writes size bytes at addr with a single access of that width.
func (m *DevMem) Store(addr uint64, size int, value uint64) error {
	p, err := m.ptr("store", addr, size)
	if err != nil {
		return err
	}
	switch size {
	case 1:
		*(*uint8)(p) = uint8(value)
	case 2:
		*(*uint16)(p) = uint16(value)
	case 4:
		atomic.StoreUint32((*uint32)(p), uint32(value))
	default:
		atomic.StoreUint64((*uint64)(p), value)
	}
	return nil
}

var _ Memory = (*DevMem)(nil)
