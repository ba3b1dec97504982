// Package mmio implements a memory-mapped register transport.
//
// Registers live at byte addresses of a Memory. Writes whose defined bits
// (mask | identity mask) form one contiguous, byte-aligned lane of 1, 2, 4
// or 8 bytes are issued as a single store of that lane; any other write
// loads the full register, merges and stores it back.
package mmio

import (
	"errors"
	"fmt"
)

// Memory errors.
var (
	ErrOutOfRange  = errors.New("address out of range")
	ErrMisaligned  = errors.New("misaligned access")
	ErrAccessSize  = errors.New("unsupported access size")
	ErrUnavailable = errors.New("memory mapping unavailable")
)

// Memory is a byte-addressed store supporting 1, 2, 4 and 8 byte accesses.
// Implementations must be safe for concurrent use.
type Memory interface {
	Load(addr uint64, size int) (uint64, error)
	Store(addr uint64, size int, value uint64) error
}

// AccessError describes a failed memory access.
type AccessError struct {
	Op   string
	Addr uint64
	Size int
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %d bytes at %#x: %v", e.Op, e.Size, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func checkSize(size int) error {
	switch size {
	case 1, 2, 4, 8:
		return nil
	default:
		return ErrAccessSize
	}
}

func sizeMask(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (size * 8)) - 1
}
