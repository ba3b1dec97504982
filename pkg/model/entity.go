package model

import (
	"github.com/regio-project/regio-go/pkg/path"
)

// Kind identifies the type of a tree entity.
type Kind uint8

const (
	KindGroup Kind = iota
	KindRegister
	KindField
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "GROUP"
	case KindRegister:
		return "REGISTER"
	case KindField:
		return "FIELD"
	default:
		return "UNKNOWN"
	}
}

// Entity is a named node in a register tree.
type Entity interface {
	// Name returns the entity name, unique among its siblings.
	Name() string

	// Kind returns the entity type.
	Kind() Kind

	// Children returns the child entities in declaration order.
	Children() []Entity

	// Parent returns the enclosing entity, or nil for a group or a
	// detached entity.
	Parent() Entity
}

// FullPath returns the path of e from the top of its tree, excluding the
// group name.
func FullPath(e Entity) path.Path {
	var segments []string
	for cur := e; cur != nil && cur.Kind() != KindGroup; cur = cur.Parent() {
		segments = append(segments, cur.Name())
	}
	out := make(path.Path, len(segments))
	for i, s := range segments {
		out[len(segments)-1-i] = s
	}
	return out
}

// RegisterOf returns the register containing e, or e itself when it is a
// register. It returns nil for groups.
func RegisterOf(e Entity) *Register {
	for cur := e; cur != nil; cur = cur.Parent() {
		if r, ok := cur.(*Register); ok {
			return r
		}
	}
	return nil
}

// MaskOf returns the register-positioned bit mask covered by e.
// Groups have no mask.
func MaskOf(e Entity) uint64 {
	switch v := e.(type) {
	case *Register:
		return v.Mask()
	case *Field:
		return v.Mask()
	default:
		return 0
	}
}

// IsAncestor reports whether a is a strict ancestor of e.
func IsAncestor(a, e Entity) bool {
	for cur := e.Parent(); cur != nil; cur = cur.Parent() {
		if cur == a {
			return true
		}
	}
	return false
}
