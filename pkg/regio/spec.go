package regio

import (
	"fmt"

	"github.com/regio-project/regio-go/pkg/identity"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// RegisterValue is the working value of one register in a spec.
type RegisterValue struct {
	Register *model.Register

	// Mask holds the bits named by the spec's paths.
	Mask uint64

	// Value is the register value. For writes only bits in Mask are
	// meaningful.
	Value uint64
}

// ReadSpec is a validated set of paths to read from a group.
type ReadSpec struct {
	group    *model.Group
	bindings []model.Binding
	regs     []RegisterValue
}

// NewReadSpec validates paths against g and groups them by register.
// Reads that would expose write-only bits are rejected here.
func NewReadSpec(g *model.Group, paths ...string) (*ReadSpec, error) {
	parsed, err := parseAll(paths)
	if err != nil {
		return nil, err
	}
	return ReadSpecOf(g, parsed...)
}

// ReadSpecOf is like NewReadSpec but takes parsed paths.
func ReadSpecOf(g *model.Group, paths ...path.Path) (*ReadSpec, error) {
	bindings, err := g.Bind(paths...)
	if err != nil {
		return nil, err
	}
	regs := groupByRegister(bindings)
	for _, rv := range regs {
		if err := identity.CheckRead(rv.Register, rv.Mask, g.Bus()); err != nil {
			return nil, err
		}
	}
	return &ReadSpec{group: g, bindings: bindings, regs: regs}, nil
}

// Group returns the group the spec reads from.
func (s *ReadSpec) Group() *model.Group { return s.group }

// Paths returns the requested paths in order.
func (s *ReadSpec) Paths() []path.Path { return paths(s.bindings) }

// Registers returns the registers to read with the requested masks.
func (s *ReadSpec) Registers() []RegisterValue {
	out := make([]RegisterValue, len(s.regs))
	copy(out, s.regs)
	return out
}

// WriteSpec is a validated set of register writes.
type WriteSpec struct {
	group    *model.Group
	bindings []model.Binding
	regs     []RegisterValue
	triples  []identity.Triple
}

// NewWriteSpec validates the assignments against g and folds them into
// one value per register. Every scalar of every value path is a separate
// assignment, so V("reg", V("a", 1), V("b", 2)) writes reg.a and reg.b.
func NewWriteSpec(g *model.Group, values ...path.ValuePath) (*WriteSpec, error) {
	var assigns []path.Assignment
	for _, vp := range values {
		assigns = append(assigns, vp.Flatten()...)
	}

	paths := make([]path.Path, len(assigns))
	for i, a := range assigns {
		paths[i] = a.Path
	}
	bindings, err := g.Bind(paths...)
	if err != nil {
		return nil, err
	}

	regs := groupByRegister(bindings)
	index := make(map[*model.Register]int, len(regs))
	for i, rv := range regs {
		index[rv.Register] = i
	}
	for i, b := range bindings {
		v := assigns[i].Value
		rv := &regs[index[b.Register]]
		if err := insert(rv, b.Entity, v, b.Path); err != nil {
			return nil, err
		}
	}
	return newWriteSpec(g, bindings, regs)
}

func newWriteSpec(g *model.Group, bindings []model.Binding, regs []RegisterValue) (*WriteSpec, error) {
	triples := make([]identity.Triple, len(regs))
	for i, rv := range regs {
		t, err := identity.ForWrite(rv.Register, rv.Mask, g.Bus())
		if err != nil {
			return nil, err
		}
		triples[i] = t
	}
	return &WriteSpec{group: g, bindings: bindings, regs: regs, triples: triples}, nil
}

// Group returns the group the spec writes to.
func (s *WriteSpec) Group() *model.Group { return s.group }

// Paths returns the written paths in order.
func (s *WriteSpec) Paths() []path.Path { return paths(s.bindings) }

// Registers returns the pending register values.
func (s *WriteSpec) Registers() []RegisterValue {
	out := make([]RegisterValue, len(s.regs))
	copy(out, s.regs)
	return out
}

// Triple returns the write masks computed for the named register.
func (s *WriteSpec) Triple(register string) (identity.Triple, bool) {
	for i, rv := range s.regs {
		if rv.Register.Name() == register {
			return s.triples[i], true
		}
	}
	return identity.Triple{}, false
}

// Field returns a handle on the field (or register) at p.
func (s *WriteSpec) Field(p string) (*FieldRef, error) {
	parsed, err := path.Parse(p)
	if err != nil {
		return nil, err
	}
	return s.FieldOf(parsed)
}

// FieldOf is like Field but takes a parsed path.
func (s *WriteSpec) FieldOf(p path.Path) (*FieldRef, error) {
	rv, e, err := lookup(s.regs, p, "write spec")
	if err != nil {
		return nil, err
	}
	return &FieldRef{rv: rv, entity: e, path: p}, nil
}

// Get returns the pending value at p.
func (s *WriteSpec) Get(p string) (uint64, error) {
	f, err := s.Field(p)
	if err != nil {
		return 0, err
	}
	return f.Value(), nil
}

// Set replaces the pending value at p. Values wider than the field are
// rejected.
func (s *WriteSpec) Set(p string, v uint64) error {
	f, err := s.Field(p)
	if err != nil {
		return err
	}
	if limit := model.WidthMask(f.Width()); v > limit {
		return &ValueRangeError{Path: f.Path(), Value: v, Max: limit}
	}
	f.Set(v)
	return nil
}

// SetEnum sets the field at p to one of its named values.
func (s *WriteSpec) SetEnum(p, name string) error {
	f, err := s.Field(p)
	if err != nil {
		return err
	}
	field, ok := f.entity.(*model.Field)
	if !ok {
		return fmt.Errorf("%s: %w: not a field", p, ErrInvalidLookup)
	}
	v, ok := field.EnumValue(name)
	if !ok {
		return fmt.Errorf("%s: unknown value name %q", p, name)
	}
	f.Set(v)
	return nil
}

func parseAll(ss []string) ([]path.Path, error) {
	out := make([]path.Path, len(ss))
	for i, s := range ss {
		p, err := path.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func paths(bindings []model.Binding) []path.Path {
	out := make([]path.Path, len(bindings))
	for i, b := range bindings {
		out[i] = b.Path
	}
	return out
}

// groupByRegister returns one entry per distinct register in order of
// first appearance, with the union of the bound entity masks.
func groupByRegister(bindings []model.Binding) []RegisterValue {
	var regs []RegisterValue
	index := make(map[*model.Register]int)
	for _, b := range bindings {
		i, ok := index[b.Register]
		if !ok {
			regs = append(regs, RegisterValue{Register: b.Register})
			i = len(regs) - 1
			index[b.Register] = i
		}
		regs[i].Mask |= model.MaskOf(b.Entity)
	}
	return regs
}

func insert(rv *RegisterValue, e model.Entity, v uint64, p path.Path) error {
	switch ent := e.(type) {
	case *model.Field:
		if v > ent.Max() {
			return &ValueRangeError{Path: p, Value: v, Max: ent.Max()}
		}
		rv.Value = ent.Insert(rv.Value, v)
	case *model.Register:
		if v > ent.Mask() {
			return &ValueRangeError{Path: p, Value: v, Max: ent.Mask()}
		}
		rv.Value = v
	}
	return nil
}

// lookup finds the register whose spec bits overlap the entity p denotes.
func lookup(regs []RegisterValue, p path.Path, in string) (*RegisterValue, model.Entity, error) {
	var (
		match     *RegisterValue
		entity    model.Entity
		count     int
		ambiguous bool
	)
	for i := range regs {
		o := model.Resolve(regs[i].Register, p)
		switch o.Result {
		case path.Resolved:
			if model.MaskOf(o.Entity)&regs[i].Mask == 0 {
				continue
			}
			match, entity = &regs[i], o.Entity
			count++
		case path.Ambiguous:
			ambiguous = true
		}
	}
	switch {
	case ambiguous || count > 1:
		return nil, nil, &LookupError{In: in, Path: p, Err: ErrAmbiguousLookup}
	case count == 0:
		return nil, nil, &LookupError{In: in, Path: p, Err: ErrInvalidLookup}
	}
	return match, entity, nil
}
