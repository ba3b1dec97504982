//go:build !linux

package mmio

import (
	"fmt"
)

// DevMem is unavailable on this platform.
type DevMem struct{}

// OpenDevMem always fails on this platform.
func OpenDevMem(path string, base uint64, size int) (*DevMem, error) {
	return nil, fmt.Errorf("open %s: %w", path, ErrUnavailable)
}

// Close does nothing.
func (m *DevMem) Close() error { return nil }

// Load always fails.
func (m *DevMem) Load(addr uint64, size int) (uint64, error) { return 0, ErrUnavailable }

// Store always fails.
func (m *DevMem) Store(addr uint64, size int, value uint64) error { return ErrUnavailable }

var _ Memory = (*DevMem)(nil)
