package mmio

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOverlap is returned when two windows of a Windows set share addresses.
var ErrOverlap = errors.New("overlapping windows")

// Window places a Memory at [Base, Base+Size).
type Window struct {
	Name string
	Base uint64
	Size int
	Mem  Memory
}

// Contains reports whether [addr, addr+size) lies inside the window.
func (w Window) Contains(addr uint64, size int) bool {
	return addr >= w.Base && addr-w.Base+uint64(size) <= uint64(w.Size)
}

// Windows is a Memory routing each access to the window holding it.
// Accesses spanning two windows fail with ErrOutOfRange.
type Windows struct {
	windows []Window
}

// NewWindows creates a routing memory. Windows must not overlap.
func NewWindows(windows ...Window) (*Windows, error) {
	sorted := append([]Window(nil), windows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Base < sorted[j].Base })
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.Base+uint64(prev.Size) > sorted[i].Base {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlap, prev.Name, sorted[i].Name)
		}
	}
	return &Windows{windows: sorted}, nil
}

// Windows returns the windows ordered by base address.
func (ws *Windows) Windows() []Window { return ws.windows }

func (ws *Windows) find(op string, addr uint64, size int) (Memory, error) {
	if err := checkSize(size); err != nil {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: err}
	}
	i := sort.Search(len(ws.windows), func(i int) bool {
		w := ws.windows[i]
		return w.Base+uint64(w.Size) > addr
	})
	if i == len(ws.windows) || !ws.windows[i].Contains(addr, size) {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: ErrOutOfRange}
	}
	return ws.windows[i].Mem, nil
}

// Load reads size bytes at addr from the window holding it.
func (ws *Windows) Load(addr uint64, size int) (uint64, error) {
	m, err := ws.find("load", addr, size)
	if err != nil {
		return 0, err
	}
	return m.Load(addr, size)
}

// Store writes size bytes at addr to the window holding it.
func (ws *Windows) Store(addr uint64, size int, value uint64) error {
	m, err := ws.find("store", addr, size)
	if err != nil {
		return err
	}
	return m.Store(addr, size, value)
}

var _ Memory = (*Windows)(nil)
