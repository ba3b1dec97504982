//go:build linux

package mmio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDevMemOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, make([]byte, os.Getpagesize()), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := OpenDevMem(path, 0, 64)
	if err != nil {
		t.Fatalf("OpenDevMem: %v", err)
	}
	defer m.Close()

	if err := m.Store(8, 4, 0xcafe_f00d); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := m.Load(8, 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != 0xcafe_f00d {
		t.Errorf("expected 0xcafef00d, got %#x", got)
	}
	b, err := m.Load(10, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b != 0xcafe {
		t.Errorf("expected upper half 0xcafe, got %#x", b)
	}

	if _, err := m.Load(9, 4); !errors.Is(err, ErrMisaligned) {
		t.Errorf("expected ErrMisaligned, got %v", err)
	}
	if _, err := m.Load(64, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
