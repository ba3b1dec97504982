package mmio

import (
	"encoding/binary"
	"sync"
)

// AccessKind distinguishes loads from stores in an access record.
type AccessKind uint8

const (
	Load AccessKind = iota
	Store
)

// String returns the access kind name.
func (k AccessKind) String() string {
	if k == Store {
		return "store"
	}
	return "load"
}

// Access records one memory transaction.
type Access struct {
	Kind  AccessKind
	Addr  uint64
	Size  int
	Value uint64
}

// Region is a little-endian in-memory Memory covering [base, base+size).
// It records every access, which makes it suitable for simulation and
// for verifying how a transport reaches the hardware.
type Region struct {
	mu       sync.Mutex
	base     uint64
	data     []byte
	strict   bool
	accesses []Access
	loads    int
	stores   int
}

// NewRegion creates a zeroed region.
func NewRegion(base uint64, size int) *Region {
	return &Region{base: base, data: make([]byte, size)}
}

// SetStrict makes the region reject accesses that are not naturally aligned.
func (r *Region) SetStrict(strict bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = strict
}

// Base returns the first address of the region.
func (r *Region) Base() uint64 { return r.base }

// Size returns the region length in bytes.
func (r *Region) Size() int { return len(r.data) }

// Contains reports whether [addr, addr+size) lies inside the region.
func (r *Region) Contains(addr uint64, size int) bool {
	return addr >= r.base && addr-r.base+uint64(size) <= uint64(len(r.data))
}

func (r *Region) slice(op string, addr uint64, size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: err}
	}
	if !r.Contains(addr, size) {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: ErrOutOfRange}
	}
	if r.strict && addr%uint64(size) != 0 {
		return nil, &AccessError{Op: op, Addr: addr, Size: size, Err: ErrMisaligned}
	}
	off := addr - r.base
	return r.data[off : off+uint64(size)], nil
}

// Load reads size bytes at addr.
func (r *Region) Load(addr uint64, size int) (uint64, error) {
	return r.load(addr, size, true)
}

// Store writes the low size bytes of value at addr.
func (r *Region) Store(addr uint64, size int, value uint64) error {
	return r.store(addr, size, value, true)
}

// Peek reads without recording an access.
func (r *Region) Peek(addr uint64, size int) (uint64, error) {
	return r.load(addr, size, false)
}

// Poke writes without recording an access.
func (r *Region) Poke(addr uint64, size int, value uint64) error {
	return r.store(addr, size, value, false)
}

func (r *Region) load(addr uint64, size int, record bool) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.slice("load", addr, size)
	if err != nil {
		return 0, err
	}
	var v uint64
	switch size {
	case 1:
		v = uint64(b[0])
	case 2:
		v = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		v = uint64(binary.LittleEndian.Uint32(b))
	case 8:
		v = binary.LittleEndian.Uint64(b)
	}
	if record {
		r.loads++
		r.accesses = append(r.accesses, Access{Kind: Load, Addr: addr, Size: size, Value: v})
	}
	return v, nil
}

func (r *Region) store(addr uint64, size int, value uint64, record bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.slice("store", addr, size)
	if err != nil {
		return err
	}
	switch size {
	case 1:
		b[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(b, value)
	}
	if record {
		value &= sizeMask(size)
		r.stores++
		r.accesses = append(r.accesses, Access{Kind: Store, Addr: addr, Size: size, Value: value})
	}
	return nil
}

// Counts returns the number of recorded loads and stores.
func (r *Region) Counts() (loads, stores int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.stores
}

// Accesses returns a copy of the access log.
func (r *Region) Accesses() []Access {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Access, len(r.accesses))
	copy(out, r.accesses)
	return out
}

// ResetStats clears counters and the access log.
func (r *Region) ResetStats() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads, r.stores = 0, 0
	r.accesses = nil
}

var _ Memory = (*Region)(nil)
