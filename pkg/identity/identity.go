// Package identity computes the bit-level parameters of register writes and
// checks accesses against read-only and write-only policies.
//
// A write names the bits it sets (the write mask). Every other bit of the
// register either has a statically known resting value, its identity, or
// must be preserved by reading the register first. The identity mask and
// value let a transport skip that read when
//
//	mask | identityMask == register mask
//
// All checks run before any bus transaction and are evaluated against the
// bits the transport actually touches (see bus.TransformMask).
package identity

import (
	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/model"
)

// Triple holds the masks of a register write, without its value.
type Triple struct {
	Mask          uint64
	IdentityMask  uint64
	IdentityValue uint64
}

// NeedsRead reports whether the write leaves bits of a register of the
// given width undefined, requiring a read-modify-write.
func (t Triple) NeedsRead(width int) bool {
	full := model.WidthMask(width)
	return (t.Mask|t.IdentityMask)&full != full
}

// With returns the bus write carrying value.
func (t Triple) With(value uint64) bus.Write {
	return bus.Write{
		Mask:          t.Mask,
		IdentityMask:  t.IdentityMask,
		IdentityValue: t.IdentityValue,
		Value:         value & t.Mask,
	}
}

// Compute returns the write triple for writing the bits in mask, without
// access checks. Bits outside mask contribute their identity when their
// policy has one.
func Compute(reg *model.Register, mask uint64) Triple {
	mask &= reg.Mask()
	t := Triple{Mask: mask}
	for _, r := range reg.Regions() {
		untouched := r.Mask &^ mask
		if untouched == 0 || !r.Policy.HasIdentity() {
			continue
		}
		t.IdentityMask |= untouched
		t.IdentityValue |= r.IdentityValue(reg) & untouched
	}
	return t
}

// ForWrite checks a write of the bits in mask over b and returns its
// triple.
//
// Read-only bits may not be written. Bits the transport touches but the
// write does not define must be preserved by a read, which is rejected
// when they are write-only.
func ForWrite(reg *model.Register, mask uint64, b bus.Bus) (Triple, error) {
	mask &= reg.Mask()
	if err := checkReadOnly(reg, mask); err != nil {
		return Triple{}, err
	}

	t := Compute(reg, mask)
	if !t.NeedsRead(reg.Width()) {
		return t, nil
	}

	exposed := bus.TransformMask(b, reg.Target(), mask) &^ (t.Mask | t.IdentityMask)
	var bits bool
	for _, r := range reg.Regions() {
		if r.Mask&exposed == 0 || !r.Policy.IsWriteOnly() {
			continue
		}
		if r.Field != nil {
			return Triple{}, rmwWriteOnlyField(reg.Name(), r.Field.Name())
		}
		bits = true
	}
	if bits {
		return Triple{}, rmwWriteOnlyBits(reg.Name())
	}
	return t, nil
}

func checkReadOnly(reg *model.Register, mask uint64) error {
	var bits bool
	for _, r := range reg.Regions() {
		if r.Mask&mask == 0 || !r.Policy.IsReadOnly() {
			continue
		}
		if r.Field != nil {
			return readOnlyField(reg.Name(), r.Field.Name())
		}
		bits = true
	}
	if bits {
		return readOnlyRegister(reg.Name())
	}
	return nil
}

// CheckRead reports whether reading the bits in mask over b would expose
// write-only bits. Fields are reported first. Write-only bits outside any
// field are reported against the register, distinguishing a read that
// requested them from one where the transport merely touches them.
func CheckRead(reg *model.Register, mask uint64, b bus.Bus) error {
	mask &= reg.Mask()
	exposed := bus.TransformMask(b, reg.Target(), mask) | mask

	var unowned *model.Region
	for i, r := range reg.Regions() {
		if r.Mask&exposed == 0 || !r.Policy.IsWriteOnly() {
			continue
		}
		if r.Field != nil {
			return writeOnlyField(reg.Name(), r.Field.Name())
		}
		unowned = &reg.Regions()[i]
	}
	if unowned == nil {
		return nil
	}
	if unowned.Mask&mask != 0 {
		return writeOnlyRegister(reg.Name())
	}
	return writeOnlyBits(reg.Name())
}

// ReadMask returns the bits a read of mask will return, masked to the
// register. Transports may deliver more than requested.
func ReadMask(reg *model.Register, mask uint64, b bus.Bus) uint64 {
	return (bus.TransformMask(b, reg.Target(), mask) | mask) & reg.Mask()
}
