package mmio

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/regio-project/regio-go/pkg/bus"
)

// Bus is a bus.Bus over a Memory. Operations complete synchronously.
type Bus struct {
	mem       Memory
	unaligned bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithUnaligned allows lane stores that are byte-aligned within the
// register but not naturally aligned to their own size, for memories that
// support such accesses.
func WithUnaligned() Option {
	return func(b *Bus) { b.unaligned = true }
}

// NewBus creates a memory-mapped bus.
func NewBus(mem Memory, opts ...Option) *Bus {
	b := &Bus{mem: mem}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Memory returns the backing memory.
func (b *Bus) Memory() Memory { return b.mem }

// Read loads the full register. The mask is not used: memory loads always
// return whole registers.
func (b *Bus) Read(ctx context.Context, t bus.Target, _ uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkWidth(t); err != nil {
		return 0, err
	}
	v, err := b.mem.Load(t.Address, t.Bytes())
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", t.Name, err)
	}
	return v, nil
}

// Write stores the defined bits of w, using a single lane store when
// possible and a load-merge-store otherwise.
func (b *Bus) Write(ctx context.Context, t bus.Target, w bus.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkWidth(t); err != nil {
		return err
	}

	combined := w.Covered() & t.Mask()
	if combined == 0 {
		return nil
	}
	data := w.Apply(0)

	if lane, ok := b.Lane(t, combined); ok {
		err := b.mem.Store(t.Address+uint64(lane.Offset), lane.Size, data>>(lane.Offset*8))
		if err != nil {
			return fmt.Errorf("write %s: %w", t.Name, err)
		}
		return nil
	}

	old, err := b.mem.Load(t.Address, t.Bytes())
	if err != nil {
		return fmt.Errorf("write %s: %w", t.Name, err)
	}
	if err := b.mem.Store(t.Address, t.Bytes(), w.Apply(old)); err != nil {
		return fmt.Errorf("write %s: %w", t.Name, err)
	}
	return nil
}

// Lane locates a single store within a register.
type Lane struct {
	Offset int // bytes from the register address
	Size   int // bytes
}

// Lane returns the store that writes exactly the bits in mask, if one
// exists: mask must be one contiguous run of 8, 16, 32 or 64 bits starting
// on a byte boundary. Unless unaligned lanes are enabled the offset must
// also be a multiple of the lane size.
func (b *Bus) Lane(t bus.Target, mask uint64) (Lane, bool) {
	if mask == 0 {
		return Lane{}, false
	}
	lsb := bits.TrailingZeros64(mask)
	width := bits.OnesCount64(mask)
	if lsb%8 != 0 || bits.TrailingZeros64(^(mask>>lsb)) != width {
		return Lane{}, false
	}
	switch width {
	case 8, 16, 32, 64:
	default:
		return Lane{}, false
	}
	if width > t.Width {
		return Lane{}, false
	}
	lane := Lane{Offset: lsb / 8, Size: width / 8}
	if !b.unaligned && lane.Offset%lane.Size != 0 {
		return Lane{}, false
	}
	return lane, true
}

// Synchronous returns true; memory accesses never suspend.
func (b *Bus) Synchronous() bool { return true }

func checkWidth(t bus.Target) error {
	switch t.Width {
	case 8, 16, 32, 64:
		return nil
	default:
		return fmt.Errorf("%s: %w: %d bits", t.Name, bus.ErrUnsupportedWidth, t.Width)
	}
}

var (
	_ bus.Bus         = (*Bus)(nil)
	_ bus.Synchronous = (*Bus)(nil)
)
