package bus

import (
	"context"
)

// ByteEnableBus wraps a transport whose accesses are granular to bytes:
// touching any bit of a byte lane touches the whole lane.
type ByteEnableBus struct {
	Bus
}

// ByteEnable wraps b with byte-lane mask expansion.
func ByteEnable(b Bus) *ByteEnableBus {
	return &ByteEnableBus{Bus: b}
}

// TransformMask widens mask to whole bytes.
func (b *ByteEnableBus) TransformMask(t Target, mask uint64) uint64 {
	return ExpandToBytes(mask) & t.Mask()
}

// Read forwards to the wrapped bus with a byte-aligned mask.
func (b *ByteEnableBus) Read(ctx context.Context, t Target, mask uint64) (uint64, error) {
	return b.Bus.Read(ctx, t, b.TransformMask(t, mask))
}

// Write forwards to the wrapped bus.
func (b *ByteEnableBus) Write(ctx context.Context, t Target, w Write) error {
	return b.Bus.Write(ctx, t, w)
}

// Synchronous reports the wrapped bus's completion mode.
func (b *ByteEnableBus) Synchronous() bool { return IsSynchronous(b.Bus) }

// ExpandToBytes sets every bit of each byte lane that has any bit set.
func ExpandToBytes(mask uint64) uint64 {
	var out uint64
	for lane := 0; lane < 8; lane++ {
		laneMask := uint64(0xff) << (lane * 8)
		if mask&laneMask != 0 {
			out |= laneMask
		}
	}
	return out
}

var (
	_ Bus             = (*ByteEnableBus)(nil)
	_ MaskTransformer = (*ByteEnableBus)(nil)
	_ Synchronous     = (*ByteEnableBus)(nil)
)
