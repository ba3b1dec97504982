package model

import (
	"sort"
)

// Convenience values for single-bit enable fields.
const (
	Disable uint64 = 0
	Enable  uint64 = 1
)

// Field is a named bit range within a register or within a parent field.
type Field struct {
	name     string
	msb      int
	lsb      int
	policy   *Policy
	enums    map[string]uint64
	children []*Field

	parent Entity
}

// NewField creates a field covering bits msb..lsb (inclusive) of its
// register. Subfield ranges are also register-relative.
func NewField(name string, msb, lsb int, subfields ...*Field) *Field {
	return &Field{
		name:     name,
		msb:      msb,
		lsb:      lsb,
		children: subfields,
	}
}

// WithPolicy sets an explicit write-function policy and returns f.
func (f *Field) WithPolicy(p Policy) *Field {
	f.policy = &p
	return f
}

// WithEnum attaches symbolic value names and returns f.
func (f *Field) WithEnum(values map[string]uint64) *Field {
	f.enums = make(map[string]uint64, len(values))
	for k, v := range values {
		f.enums[k] = v
	}
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Kind returns KindField.
func (f *Field) Kind() Kind { return KindField }

// Parent returns the enclosing register or field.
func (f *Field) Parent() Entity { return f.parent }

// Children returns the subfields.
func (f *Field) Children() []Entity {
	out := make([]Entity, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out
}

// SubFields returns the subfields.
func (f *Field) SubFields() []*Field { return f.children }

// Msb returns the most significant bit index.
func (f *Field) Msb() int { return f.msb }

// Lsb returns the least significant bit index.
func (f *Field) Lsb() int { return f.lsb }

// Width returns the number of bits in the field.
func (f *Field) Width() int { return f.msb - f.lsb + 1 }

// Mask returns the register-positioned mask of the field.
func (f *Field) Mask() uint64 { return BitMask(f.msb, f.lsb) }

// Max returns the largest value the field can hold.
func (f *Field) Max() uint64 { return WidthMask(f.Width()) }

// Extract returns the field value held in a register value.
func (f *Field) Extract(reg uint64) uint64 {
	return (reg & f.Mask()) >> f.lsb
}

// Insert returns dest with the field replaced by v. Bits of v beyond the
// field width are discarded.
func (f *Field) Insert(dest, v uint64) uint64 {
	mask := f.Mask()
	return (dest &^ mask) | ((v << f.lsb) & mask)
}

// Policy returns the effective policy: the explicit one, else the parent
// field's, else DefaultPolicy.
func (f *Field) Policy() Policy {
	if f.policy != nil {
		return *f.policy
	}
	if pf, ok := f.parent.(*Field); ok {
		return pf.Policy()
	}
	return DefaultPolicy
}

// Register returns the register containing the field.
func (f *Field) Register() *Register { return RegisterOf(f) }

// EnumValue returns the value for a symbolic name.
func (f *Field) EnumValue(name string) (uint64, bool) {
	v, ok := f.enums[name]
	return v, ok
}

// EnumName returns the symbolic name of v, if any.
func (f *Field) EnumName(v uint64) (string, bool) {
	for k, ev := range f.enums {
		if ev == v {
			return k, true
		}
	}
	return "", false
}

// EnumNames returns the symbolic names sorted by value.
func (f *Field) EnumNames() []string {
	names := make([]string, 0, len(f.enums))
	for k := range f.enums {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := f.enums[names[i]], f.enums[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	return names
}
