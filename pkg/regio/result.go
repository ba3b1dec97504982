package regio

import (
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// ReadResult holds the register values returned by a read.
//
// Any path that selects exactly one register of the read and overlaps the
// bits that were requested from it can be looked up: the register itself,
// a qualified "reg.field" path, or a bare field name when no other read
// register has a requested field of that name.
type ReadResult struct {
	group    *model.Group
	bindings []model.Binding
	regs     []RegisterValue
}

func newReadResult(s *ReadSpec, values []uint64) *ReadResult {
	regs := make([]RegisterValue, len(s.regs))
	for i, rv := range s.regs {
		rv.Value = values[i] & rv.Register.Mask()
		regs[i] = rv
	}
	return &ReadResult{group: s.group, bindings: s.bindings, regs: regs}
}

// Get returns the value at p.
func (r *ReadResult) Get(p string) (uint64, error) {
	parsed, err := path.Parse(p)
	if err != nil {
		return 0, err
	}
	return r.GetPath(parsed)
}

// GetPath is like Get but takes a parsed path.
func (r *ReadResult) GetPath(p path.Path) (uint64, error) {
	rv, e, err := lookup(r.regs, p, "read result")
	if err != nil {
		return 0, err
	}
	return extract(rv, e), nil
}

// MustGet is like Get but panics on error.
func (r *ReadResult) MustGet(p string) uint64 {
	v, err := r.Get(p)
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the value of a single-path read.
func (r *ReadResult) Value() (uint64, error) {
	if len(r.bindings) != 1 {
		return 0, ErrNotSingle
	}
	b := r.bindings[0]
	for i := range r.regs {
		if r.regs[i].Register == b.Register {
			return extract(&r.regs[i], b.Entity), nil
		}
	}
	return 0, &LookupError{In: "read result", Path: b.Path, Err: ErrInvalidLookup}
}

// Register returns the raw value read from the named register.
func (r *ReadResult) Register(name string) (uint64, bool) {
	for _, rv := range r.regs {
		if rv.Register.Name() == name {
			return rv.Value, true
		}
	}
	return 0, false
}

// Registers returns the register values in read order.
func (r *ReadResult) Registers() []RegisterValue {
	out := make([]RegisterValue, len(r.regs))
	copy(out, r.regs)
	return out
}

// Paths returns the paths that were read.
func (r *ReadResult) Paths() []path.Path { return paths(r.bindings) }

// Values returns every read path with its value, in request order.
func (r *ReadResult) Values() []path.Assignment {
	out := make([]path.Assignment, 0, len(r.bindings))
	for _, b := range r.bindings {
		for i := range r.regs {
			if r.regs[i].Register == b.Register {
				out = append(out, path.Assignment{Path: b.Path, Value: extract(&r.regs[i], b.Entity)})
				break
			}
		}
	}
	return out
}

// ToWriteSpec returns a write spec covering the same paths, seeded with
// the values read. Bits that were read but not requested are not written
// back; they are preserved by the write masks instead.
func (r *ReadResult) ToWriteSpec() (*WriteSpec, error) {
	regs := make([]RegisterValue, len(r.regs))
	copy(regs, r.regs)
	return newWriteSpec(r.group, r.bindings, regs)
}

func extract(rv *RegisterValue, e model.Entity) uint64 {
	if f, ok := e.(*model.Field); ok {
		return f.Extract(rv.Value)
	}
	return rv.Value & rv.Register.Mask()
}
