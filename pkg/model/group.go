package model

import (
	"fmt"
	"strings"

	"github.com/regio-project/regio-go/pkg/bus"
)

// Group is the top-level container of registers, bound to one bus.
type Group struct {
	name      string
	bus       bus.Bus
	registers []*Register
}

// NewGroup creates a group and validates the whole tree: names, bit ranges,
// widths and policies. Registers and fields are attached to the group and
// must not be reused in another tree.
func NewGroup(name string, b bus.Bus, registers ...*Register) (*Group, error) {
	g := &Group{
		name:      name,
		bus:       b,
		registers: registers,
	}

	if err := checkName(name, name); err != nil {
		return nil, err
	}

	var a attachment
	seen := make(map[string]bool, len(registers))
	for _, r := range registers {
		if r.group != nil {
			a.undo()
			return nil, &TreeError{Entity: r.name, Err: ErrAlreadyAttached}
		}
		if err := checkName(r.name, r.name); err != nil {
			a.undo()
			return nil, err
		}
		if seen[r.name] {
			a.undo()
			return nil, &TreeError{Entity: r.name, Err: ErrDuplicateName}
		}
		seen[r.name] = true

		if err := g.attachRegister(r, &a); err != nil {
			a.undo()
			return nil, err
		}
	}

	return g, nil
}

// attachment records the entities a NewGroup call linked into its tree so
// a failed build leaves them reusable.
type attachment struct {
	registers []*Register
	fields    []*Field
}

func (a *attachment) undo() {
	for _, f := range a.fields {
		f.parent = nil
	}
	for _, r := range a.registers {
		r.group = nil
		r.regions = nil
	}
}

// MustGroup is like NewGroup but panics on error.
func MustGroup(name string, b bus.Bus, registers ...*Register) *Group {
	g, err := NewGroup(name, b, registers...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Group) attachRegister(r *Register, a *attachment) error {
	switch r.width {
	case 8, 16, 32, 64:
	default:
		return &TreeError{Entity: r.name, Err: ErrInvalidWidth, Detail: fmt.Sprintf("%d bits", r.width)}
	}
	if err := r.policy.Validate(); err != nil {
		return &TreeError{Entity: r.name, Err: err}
	}

	if err := checkFields(r.name, r, r.fields, r.width-1, 0, a); err != nil {
		return err
	}

	r.group = g
	a.registers = append(a.registers, r)
	r.buildRegions()
	return nil
}

// checkFields validates sibling fields against their parent's bit range and
// attaches them to parent.
func checkFields(prefix string, parent Entity, fields []*Field, msb, lsb int, a *attachment) error {
	seen := make(map[string]bool, len(fields))
	var used uint64
	for _, f := range fields {
		name := prefix + "." + f.name
		if f.parent != nil {
			return &TreeError{Entity: name, Err: ErrAlreadyAttached}
		}
		if err := checkName(name, f.name); err != nil {
			return err
		}
		if seen[f.name] {
			return &TreeError{Entity: name, Err: ErrDuplicateName}
		}
		seen[f.name] = true

		if f.msb < f.lsb || f.lsb < lsb || f.msb > msb {
			return &TreeError{
				Entity: name,
				Err:    ErrFieldRange,
				Detail: fmt.Sprintf("[%d:%d] not within [%d:%d]", f.msb, f.lsb, msb, lsb),
			}
		}
		if used&f.Mask() != 0 {
			return &TreeError{Entity: name, Err: ErrFieldOverlap}
		}
		used |= f.Mask()

		f.parent = parent
		a.fields = append(a.fields, f)
		if err := f.Policy().Validate(); err != nil {
			return &TreeError{Entity: name, Err: err}
		}
		if err := checkFields(name, f, f.children, f.msb, f.lsb, a); err != nil {
			return err
		}
	}
	return nil
}

func checkName(entity, name string) error {
	if name == "" || strings.ContainsAny(name, ". \t=") {
		return &TreeError{Entity: entity, Err: ErrInvalidName, Detail: fmt.Sprintf("%q", name)}
	}
	return nil
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Parent returns nil; groups are tree roots.
func (g *Group) Parent() Entity { return nil }

// Children returns the registers.
func (g *Group) Children() []Entity {
	out := make([]Entity, len(g.registers))
	for i, r := range g.registers {
		out[i] = r
	}
	return out
}

// Registers returns the registers in declaration order.
func (g *Group) Registers() []*Register { return g.registers }

// Register returns the register with the given name, or nil.
func (g *Group) Register(name string) *Register {
	for _, r := range g.registers {
		if r.name == name {
			return r
		}
	}
	return nil
}

// Bus returns the transport the group is bound to.
func (g *Group) Bus() bus.Bus { return g.bus }

// WithBus returns a copy of the group bound to a different bus, sharing
// the same immutable tree.
func (g *Group) WithBus(b bus.Bus) *Group {
	out := *g
	out.bus = b
	return &out
}
