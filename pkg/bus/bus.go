// Package bus defines the register transport contract.
//
// A Bus moves whole register values between the library and hardware (or a
// stand-in for it). Reads carry the mask of bits the caller is interested
// in, so transports with byte enables can narrow the transaction. Writes
// carry three masks:
//
//	Mask           bits taken from Value
//	IdentityMask   bits taken from IdentityValue (their resting value)
//	other bits     transport-defined, typically preserved by read-modify-write
//
// When Mask|IdentityMask spans the whole register the write needs no read.
package bus

import (
	"context"
	"errors"
)

// Transport errors.
var (
	ErrUnsupportedWidth = errors.New("unsupported register width")
	ErrBusClosed        = errors.New("bus is closed")
)

// Target describes the register a transaction addresses.
type Target struct {
	Name    string
	Address uint64
	Width   int // bits: 8, 16, 32 or 64
}

// Mask returns a mask covering the full register width.
func (t Target) Mask() uint64 {
	if t.Width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << t.Width) - 1
}

// Bytes returns the register width in bytes.
func (t Target) Bytes() int { return t.Width / 8 }

// Write holds the bit-level parameters of a register write.
type Write struct {
	Mask          uint64
	IdentityMask  uint64
	IdentityValue uint64
	Value         uint64
}

// Covered returns the bits whose resulting value the write fully defines.
func (w Write) Covered() uint64 { return w.Mask | w.IdentityMask }

// NeedsRead reports whether bits of the target are left undefined by the
// write, so a transport must read the register first to preserve them.
func (w Write) NeedsRead(t Target) bool {
	return w.Covered()&t.Mask() != t.Mask()
}

// Apply returns the register value after the write given its previous value.
// Masked bits come from Value, identity bits from IdentityValue and every
// other bit from prev.
func (w Write) Apply(prev uint64) uint64 {
	idMask := w.IdentityMask &^ w.Mask
	return (prev &^ (w.Mask | idMask)) | (w.Value & w.Mask) | (w.IdentityValue & idMask)
}

// Bus is a register transport.
// Implementations must be safe for concurrent use: operations on distinct
// registers may be issued in parallel.
type Bus interface {
	// Read returns the current value of the register. mask names the bits
	// the caller needs; a transport may read more.
	Read(ctx context.Context, t Target, mask uint64) (uint64, error)

	// Write updates the register so that bits in w.Mask reflect w.Value and
	// bits in w.IdentityMask reflect w.IdentityValue.
	Write(ctx context.Context, t Target, w Write) error
}

// MaskTransformer is implemented by transports that touch more bits than
// requested, such as byte-enable buses. Access checks are evaluated against
// the transformed mask.
type MaskTransformer interface {
	TransformMask(t Target, mask uint64) uint64
}

// Synchronous is implemented by transports that can report whether their
// operations complete without suspending.
type Synchronous interface {
	Synchronous() bool
}

// TransformMask returns the bits b actually exposes when asked for mask.
// Transports that do not implement MaskTransformer are assumed to access
// the full register.
func TransformMask(b Bus, t Target, mask uint64) uint64 {
	if mt, ok := b.(MaskTransformer); ok {
		return mt.TransformMask(t, mask) & t.Mask()
	}
	if mask == 0 {
		return 0
	}
	return t.Mask()
}

// IsSynchronous reports whether b declares synchronous completion.
func IsSynchronous(b Bus) bool {
	if s, ok := b.(Synchronous); ok {
		return s.Synchronous()
	}
	return false
}

// Funcs adapts plain functions to a Bus. A nil function reports
// ErrUnsupported.
type Funcs struct {
	ReadFunc  func(ctx context.Context, t Target, mask uint64) (uint64, error)
	WriteFunc func(ctx context.Context, t Target, w Write) error

	// Sync marks the functions as completing without suspension.
	Sync bool
}

// ErrUnsupported indicates the transport does not implement an operation.
var ErrUnsupported = errors.New("operation not supported by bus")

// Read calls ReadFunc.
func (f Funcs) Read(ctx context.Context, t Target, mask uint64) (uint64, error) {
	if f.ReadFunc == nil {
		return 0, ErrUnsupported
	}
	return f.ReadFunc(ctx, t, mask)
}

// Write calls WriteFunc.
func (f Funcs) Write(ctx context.Context, t Target, w Write) error {
	if f.WriteFunc == nil {
		return ErrUnsupported
	}
	return f.WriteFunc(ctx, t, w)
}

// Synchronous returns f.Sync.
func (f Funcs) Synchronous() bool { return f.Sync }

// Compile-time interface satisfaction checks.
var (
	_ Bus         = Funcs{}
	_ Synchronous = Funcs{}
)
