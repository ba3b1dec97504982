package model

import (
	"errors"

	"github.com/regio-project/regio-go/pkg/path"
)

// Binding is a validated path together with the entity it denotes.
type Binding struct {
	Path     path.Path
	Entity   Entity
	Register *Register
}

// Bind validates a set of paths against the group and resolves each one.
//
// The set is rejected when a path appears twice (or two paths denote the
// same entity), when any path fails to resolve, or when a path is redundant
// because another path in the set already covers it, as with "reg0" and
// "reg0.field0". Paths must denote registers or fields, not the group.
func (g *Group) Bind(paths ...path.Path) ([]Binding, error) {
	for i := range paths {
		for j := i + 1; j < len(paths); j++ {
			if paths[i].Equal(paths[j]) {
				return nil, &ConfigError{Group: g.name, Paths: []path.Path{paths[i]}, Err: ErrDuplicatePath}
			}
		}
	}

	bindings := make([]Binding, 0, len(paths))
	var (
		unresolved []path.Path
		causes     []error
	)
	for _, p := range paths {
		o := g.Resolve(p)
		if err := o.Err(); err != nil {
			unresolved = append(unresolved, p)
			causes = append(causes, err)
			continue
		}
		reg := RegisterOf(o.Entity)
		if reg == nil {
			unresolved = append(unresolved, p)
			causes = append(causes, &ResolveError{From: g.name, Path: p, Result: path.Unresolved})
			continue
		}
		bindings = append(bindings, Binding{Path: p, Entity: o.Entity, Register: reg})
	}
	if len(unresolved) > 0 {
		return nil, &ConfigError{
			Group: g.name,
			Paths: unresolved,
			Err:   ErrUnresolvablePath,
			Cause: errors.Join(causes...),
		}
	}

	for i, a := range bindings {
		for j, b := range bindings {
			if i == j {
				continue
			}
			if a.Entity == b.Entity {
				return nil, &ConfigError{Group: g.name, Paths: []path.Path{a.Path, b.Path}, Err: ErrDuplicatePath}
			}
			// b covers a when b is a path prefix of a or b's entity
			// encloses a's entity.
			if a.Path.HasPrefix(b.Path) || IsAncestor(b.Entity, a.Entity) {
				return nil, &ConfigError{Group: g.name, Paths: []path.Path{b.Path, a.Path}, Err: ErrRedundantPath}
			}
		}
	}

	return bindings, nil
}

// Validate reports whether the path set is acceptable for the group.
func (g *Group) Validate(paths ...path.Path) error {
	_, err := g.Bind(paths...)
	return err
}
