package model

import (
	"fmt"
)

// Access flags for registers and fields.
type Access uint8

const (
	// AccessRead allows reading.
	AccessRead Access = 1 << iota

	// AccessWrite allows writing.
	AccessWrite

	// AccessReadWrite is read and write.
	AccessReadWrite = AccessRead | AccessWrite
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// String returns the access flags as a string.
func (a Access) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if s == "" {
		return "-"
	}
	return s
}

// WriteFunc describes how hardware reacts to written bits, and therefore
// which value leaves untouched bits in their resting state.
//
//	WriteFunc    Identity  identity value
//	Replace      none      -
//	Ignore       any       0
//	OneToSet     zero      0
//	OneToClear   zero      0
//	ZeroToSet    one       all ones
//	ZeroToClear  one       all ones
//	Custom       custom    IdentityFunc(msb, lsb)
type WriteFunc uint8

const (
	// Replace stores the written data. Untouched bits must be read back.
	Replace WriteFunc = iota

	// Ignore means writes have no effect; any filler value is safe.
	Ignore

	// OneToSet sets the bit when 1 is written.
	OneToSet

	// OneToClear clears the bit when 1 is written.
	OneToClear

	// ZeroToSet sets the bit when 0 is written.
	ZeroToSet

	// ZeroToClear clears the bit when 0 is written.
	ZeroToClear

	// Custom uses a caller-supplied identity function.
	Custom
)

// String returns the write function name.
func (w WriteFunc) String() string {
	switch w {
	case Replace:
		return "replace"
	case Ignore:
		return "ignore"
	case OneToSet:
		return "one_to_set"
	case OneToClear:
		return "one_to_clear"
	case ZeroToSet:
		return "zero_to_set"
	case ZeroToClear:
		return "zero_to_clear"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Identity is the statically known resting value class of untouched bits.
type Identity uint8

const (
	// IdentityNone means untouched bits have no safe static value.
	IdentityNone Identity = iota

	// IdentityZero means writing 0 leaves the bits untouched.
	IdentityZero

	// IdentityOne means writing 1 leaves the bits untouched.
	IdentityOne

	// IdentityAny means any value leaves the bits untouched.
	IdentityAny

	// IdentityCustom means an IdentityFunc supplies the value.
	IdentityCustom
)

var identities = [...]Identity{
	Replace:     IdentityNone,
	Ignore:      IdentityAny,
	OneToSet:    IdentityZero,
	OneToClear:  IdentityZero,
	ZeroToSet:   IdentityOne,
	ZeroToClear: IdentityOne,
	Custom:      IdentityCustom,
}

// Identity returns the identity class of the write function.
func (w WriteFunc) Identity() Identity {
	if int(w) < len(identities) {
		return identities[w]
	}
	return IdentityNone
}

// IdentityFunc returns the register-positioned identity value for the
// bit range [msb, lsb]. Bits outside the range are discarded.
type IdentityFunc func(msb, lsb int) uint64

// Policy is the write-function policy of a field or register.
type Policy struct {
	Func   WriteFunc
	Access Access

	name     string
	identity IdentityFunc
}

// DefaultPolicy is a readable and writable replace policy.
var DefaultPolicy = Policy{Func: Replace, Access: AccessReadWrite}

// ReadWrite returns a readable and writable policy using w.
func ReadWrite(w WriteFunc) Policy {
	return Policy{Func: w, Access: AccessReadWrite}
}

// ReadOnly returns a read-only policy. The write function must have an
// identity so that neighbouring writes can fill these bits safely; this is
// checked by NewGroup.
func ReadOnly(w WriteFunc) Policy {
	return Policy{Func: w, Access: AccessRead}
}

// WriteOnly returns a write-only policy. The write function must not have an
// identity; this is checked by NewGroup.
func WriteOnly(w WriteFunc) Policy {
	return Policy{Func: w, Access: AccessWrite}
}

// CustomPolicy returns a readable and writable policy whose identity value
// is computed by fn.
func CustomPolicy(name string, fn IdentityFunc) Policy {
	return Policy{Func: Custom, Access: AccessReadWrite, name: name, identity: fn}
}

// IsDefault reports whether p is a plain read-write replace policy.
func (p Policy) IsDefault() bool {
	return p.Func == Replace && p.Access == AccessReadWrite
}

// HasIdentity reports whether untouched bits have a static safe value.
func (p Policy) HasIdentity() bool {
	return p.Func.Identity() != IdentityNone
}

// IsReadOnly reports whether writes are forbidden.
func (p Policy) IsReadOnly() bool { return !p.Access.CanWrite() }

// IsWriteOnly reports whether reads are forbidden.
func (p Policy) IsWriteOnly() bool { return !p.Access.CanRead() }

// IdentityValue returns the identity value for the bit range [msb, lsb],
// positioned within the register and masked to the range.
// The result is 0 for policies without identity.
func (p Policy) IdentityValue(msb, lsb int) uint64 {
	mask := BitMask(msb, lsb)
	switch p.Func.Identity() {
	case IdentityOne:
		return mask
	case IdentityCustom:
		if p.identity == nil {
			return 0
		}
		return p.identity(msb, lsb) & mask
	default:
		return 0
	}
}

// Validate checks the policy's structural constraints.
func (p Policy) Validate() error {
	if p.Access == 0 {
		return fmt.Errorf("%w: neither readable nor writable", ErrInvalidPolicy)
	}
	if p.Func > Custom {
		return fmt.Errorf("%w: unknown write function %d", ErrInvalidPolicy, p.Func)
	}
	if p.Func == Custom && p.identity == nil {
		return fmt.Errorf("%w: custom write function without identity", ErrInvalidPolicy)
	}
	if p.IsReadOnly() && !p.HasIdentity() {
		return fmt.Errorf("%w: read-only requires a write function with identity, got %s", ErrInvalidPolicy, p.Func)
	}
	if p.IsWriteOnly() && p.HasIdentity() {
		return fmt.Errorf("%w: write-only requires a write function without identity, got %s", ErrInvalidPolicy, p.Func)
	}
	return nil
}

// String returns a compact description such as "read_only<ignore>".
func (p Policy) String() string {
	fn := p.Func.String()
	if p.Func == Custom && p.name != "" {
		fn = p.name
	}
	switch {
	case p.IsReadOnly():
		return "read_only<" + fn + ">"
	case p.IsWriteOnly():
		return "write_only<" + fn + ">"
	default:
		return fn
	}
}

// BitMask returns a mask with bits msb..lsb set.
func BitMask(msb, lsb int) uint64 {
	if msb < lsb || lsb < 0 || msb > 63 {
		return 0
	}
	width := msb - lsb + 1
	if width == 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << width) - 1) << lsb
}

// WidthMask returns a mask with the low width bits set.
func WidthMask(width int) uint64 {
	if width <= 0 {
		return 0
	}
	return BitMask(width-1, 0)
}
