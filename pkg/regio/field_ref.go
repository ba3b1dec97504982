package regio

import (
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// FieldRef is a handle on one field of a pending register value.
// Every operation computes in the field's own width and changes only the
// field's bits: results wrap modulo 2^width and sibling fields are never
// touched.
type FieldRef struct {
	rv     *RegisterValue
	entity model.Entity
	path   path.Path
}

// Path returns the path the handle was looked up with.
func (f *FieldRef) Path() path.Path { return f.path }

// Register returns the register holding the field.
func (f *FieldRef) Register() *model.Register { return f.rv.Register }

// Width returns the field width in bits.
func (f *FieldRef) Width() int {
	if fld, ok := f.entity.(*model.Field); ok {
		return fld.Width()
	}
	return f.rv.Register.Width()
}

func (f *FieldRef) max() uint64 { return model.WidthMask(f.Width()) }

// Value returns the current field value.
func (f *FieldRef) Value() uint64 {
	if fld, ok := f.entity.(*model.Field); ok {
		return fld.Extract(f.rv.Value)
	}
	return f.rv.Value & f.rv.Register.Mask()
}

// Set replaces the field value. Bits beyond the field width are dropped.
func (f *FieldRef) Set(v uint64) {
	v &= f.max()
	if fld, ok := f.entity.(*model.Field); ok {
		f.rv.Value = fld.Insert(f.rv.Value, v)
		return
	}
	f.rv.Value = v
}

func (f *FieldRef) apply(op func(cur uint64) uint64) {
	f.Set(op(f.Value()))
}

// Add adds v.
func (f *FieldRef) Add(v uint64) { f.apply(func(c uint64) uint64 { return c + v }) }

// Sub subtracts v.
func (f *FieldRef) Sub(v uint64) { f.apply(func(c uint64) uint64 { return c - v }) }

// Mul multiplies by v.
func (f *FieldRef) Mul(v uint64) { f.apply(func(c uint64) uint64 { return c * v }) }

// Div divides by v. It panics if v is zero.
func (f *FieldRef) Div(v uint64) { f.apply(func(c uint64) uint64 { return c / v }) }

// Mod replaces the value by its remainder modulo v. It panics if v is zero.
func (f *FieldRef) Mod(v uint64) { f.apply(func(c uint64) uint64 { return c % v }) }

// Or sets the bits of v.
func (f *FieldRef) Or(v uint64) { f.apply(func(c uint64) uint64 { return c | v }) }

// And keeps only the bits of v.
func (f *FieldRef) And(v uint64) { f.apply(func(c uint64) uint64 { return c & v }) }

// Xor toggles the bits of v.
func (f *FieldRef) Xor(v uint64) { f.apply(func(c uint64) uint64 { return c ^ v }) }

// Inc increments the value and returns the previous one.
func (f *FieldRef) Inc() uint64 {
	prev := f.Value()
	f.Add(1)
	return prev
}

// Dec decrements the value and returns the previous one.
func (f *FieldRef) Dec() uint64 {
	prev := f.Value()
	f.Sub(1)
	return prev
}
