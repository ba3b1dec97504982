package model

import (
	"github.com/regio-project/regio-go/pkg/bus"
)

// AddressFunc computes a register address at access time.
type AddressFunc func() uint64

// Region is a set of register bits sharing one owner: the deepest field
// covering them, or the register itself for bits no field covers.
type Region struct {
	// Field owning the bits; nil for bits covered by no field.
	Field *Field

	// Mask of the owned bits. Not necessarily contiguous when subfields
	// carve holes into a field.
	Mask uint64

	// Policy in effect for the bits.
	Policy Policy
}

// Name returns the owning field name, or the register name for unowned bits.
func (r Region) Name(reg *Register) string {
	if r.Field != nil {
		return r.Field.Name()
	}
	return reg.Name()
}

// IdentityValue returns the identity value of the region's bits.
func (r Region) IdentityValue(reg *Register) uint64 {
	msb, lsb := reg.width-1, 0
	if r.Field != nil {
		msb, lsb = r.Field.msb, r.Field.lsb
	}
	return r.Policy.IdentityValue(msb, lsb) & r.Mask
}

// Register is an addressable fixed-width hardware word.
type Register struct {
	name      string
	width     int
	address   uint64
	addressFn AddressFunc
	policy    Policy
	fields    []*Field

	group   *Group
	regions []Region
}

// NewRegister creates a register of the given bit width (8, 16, 32 or 64).
func NewRegister(name string, address uint64, width int, fields ...*Field) *Register {
	return &Register{
		name:    name,
		width:   width,
		address: address,
		policy:  DefaultPolicy,
		fields:  fields,
	}
}

// WithPolicy sets the policy for bits not covered by any field and
// returns r.
func (r *Register) WithPolicy(p Policy) *Register {
	r.policy = p
	return r
}

// WithAddressFunc makes the address computed at access time and returns r.
func (r *Register) WithAddressFunc(fn AddressFunc) *Register {
	r.addressFn = fn
	return r
}

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Kind returns KindRegister.
func (r *Register) Kind() Kind { return KindRegister }

// Parent returns the owning group, or nil if detached.
func (r *Register) Parent() Entity {
	if r.group == nil {
		return nil
	}
	return r.group
}

// Children returns the fields.
func (r *Register) Children() []Entity {
	out := make([]Entity, len(r.fields))
	for i, f := range r.fields {
		out[i] = f
	}
	return out
}

// Fields returns the top-level fields.
func (r *Register) Fields() []*Field { return r.fields }

// Field returns the top-level field with the given name, or nil.
func (r *Register) Field(name string) *Field {
	for _, f := range r.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Width returns the register width in bits.
func (r *Register) Width() int { return r.width }

// Mask returns a mask covering the full register width.
func (r *Register) Mask() uint64 { return WidthMask(r.width) }

// Address returns the register address, calling the address function when
// one is configured.
func (r *Register) Address() uint64 {
	if r.addressFn != nil {
		return r.addressFn()
	}
	return r.address
}

// Policy returns the policy of bits covered by no field.
func (r *Register) Policy() Policy { return r.policy }

// Group returns the owning group.
func (r *Register) Group() *Group { return r.group }

// Target returns the bus-level description of the register.
func (r *Register) Target() bus.Target {
	return bus.Target{Name: r.name, Address: r.Address(), Width: r.width}
}

// Regions returns the ownership partition of the register bits.
// Only valid once the register belongs to a group.
func (r *Register) Regions() []Region { return r.regions }

// FieldMask returns the union of all field masks.
func (r *Register) FieldMask() uint64 {
	var m uint64
	for _, f := range r.fields {
		m |= f.Mask()
	}
	return m
}

// buildRegions assigns every bit to its deepest covering field.
func (r *Register) buildRegions() {
	var owners [64]*Field
	var walk func(fs []*Field)
	walk = func(fs []*Field) {
		for _, f := range fs {
			for b := f.lsb; b <= f.msb; b++ {
				owners[b] = f
			}
			walk(f.children)
		}
	}
	walk(r.fields)

	r.regions = r.regions[:0]
	index := make(map[*Field]int)
	for b := 0; b < r.width; b++ {
		owner := owners[b]
		i, ok := index[owner]
		if !ok {
			region := Region{Field: owner, Policy: r.policy}
			if owner != nil {
				region.Policy = owner.Policy()
			}
			r.regions = append(r.regions, region)
			i = len(r.regions) - 1
			index[owner] = i
		}
		r.regions[i].Mask |= uint64(1) << b
	}
}
