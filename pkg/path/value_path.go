package path

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotValue indicates a lookup landed on a subtree rather than a scalar.
var ErrNotValue = errors.New("path denotes a subtree, not a value")

// ValuePath pairs a path with a value: either a scalar or a tuple of
// nested value paths. A scalar element has an empty path.
type ValuePath struct {
	path  Path
	value uint64
	leaf  bool
	elems []ValuePath
}

// Assignment is a flattened (full path, value) pair.
type Assignment struct {
	Path  Path
	Value uint64
}

// Scalar returns a bare value with no path.
func Scalar(v uint64) ValuePath {
	return ValuePath{value: v, leaf: true}
}

// V builds a value path from a dotted path and its values. Each argument
// is either an integer (any signed or unsigned kind, including named enum
// types) or a nested ValuePath. V panics on other argument types, so it
// is meant for literal construction.
//
//	V("reg0.field1", 5)
//	V("reg0", V("field0", 1), V("field1", 0b101))
func V(p string, args ...any) ValuePath {
	return Of(MustParse(p), args...)
}

// Of is like V but takes an already parsed path.
func Of(p Path, args ...any) ValuePath {
	vp := ValuePath{path: p, elems: make([]ValuePath, 0, len(args))}
	for _, arg := range args {
		vp.elems = append(vp.elems, toElem(arg))
	}
	return vp
}

func toElem(arg any) ValuePath {
	switch v := arg.(type) {
	case ValuePath:
		return v
	case *ValuePath:
		return *v
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Scalar(rv.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar(uint64(rv.Int()))
	case reflect.Bool:
		if rv.Bool() {
			return Scalar(1)
		}
		return Scalar(0)
	default:
		panic(fmt.Sprintf("path: unsupported value type %T", arg))
	}
}

// Path returns the path part.
func (vp ValuePath) Path() Path { return vp.path }

// IsScalar reports whether vp is a bare value.
func (vp ValuePath) IsScalar() bool { return vp.leaf }

// Value returns the scalar value. The boolean is false when vp is not a
// scalar and does not hold exactly one scalar element.
func (vp ValuePath) Value() (uint64, bool) {
	if vp.leaf {
		return vp.value, true
	}
	if len(vp.elems) == 1 && vp.elems[0].leaf {
		return vp.elems[0].value, true
	}
	return 0, false
}

// Elems returns the tuple members.
func (vp ValuePath) Elems() []ValuePath { return vp.elems }

// Prepend returns a copy of vp whose path is prefixed with p.
func (vp ValuePath) Prepend(p Path) ValuePath {
	out := vp
	out.path = p.Join(vp.path)
	return out
}

// WithoutRoot returns a copy of vp with the first path segment removed.
func (vp ValuePath) WithoutRoot() ValuePath {
	out := vp
	out.path = vp.path.WithoutRoot()
	return out
}

// Lookup resolves p against the value tree. The result is either a scalar
// (when p lands exactly on a single value) or the sub-tree rooted at the
// leftover path.
//
//	v := V("reg", V("field1", 5), V("field2", V("sub", 10)))
//	v.Lookup(MustParse("reg.field1"))     // Scalar(5)
//	v.Lookup(MustParse("reg.field2.sub")) // Scalar(10)
func (vp ValuePath) Lookup(p Path) (ValuePath, error) {
	out, res := vp.resolve(p)
	if res != Resolved {
		return ValuePath{}, fmt.Errorf("%w: %q in %q", res.Err(), p.String(), vp.String())
	}
	return out, nil
}

// Get looks up p and returns its scalar value.
func (vp ValuePath) Get(p Path) (uint64, error) {
	out, err := vp.Lookup(p)
	if err != nil {
		return 0, err
	}
	v, ok := out.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotValue, p.String())
	}
	return v, nil
}

func (vp ValuePath) resolve(p Path) (ValuePath, Result) {
	if vp.leaf {
		if len(p) == 0 {
			return vp, Resolved
		}
		return ValuePath{}, TooLong
	}

	if len(p) > len(vp.path) {
		rest, res := p.Resolve(vp.path)
		if res != Resolved {
			return ValuePath{}, Mismatch
		}

		if vp.scalarOnly() {
			return ValuePath{}, TooLong
		}

		var (
			match ValuePath
			count int
		)
		for _, e := range vp.elems {
			if e.leaf {
				continue
			}
			if _, r := e.resolve(rest); r != Mismatch && r != Ambiguous {
				match = e
				count++
			}
		}
		switch count {
		case 0:
			return ValuePath{}, Mismatch
		case 1:
			return match.resolve(rest)
		default:
			return ValuePath{}, Ambiguous
		}
	}

	rest, res := vp.path.Resolve(p)
	if res != Resolved {
		return ValuePath{}, res
	}
	if len(rest) == 0 && len(vp.elems) == 1 {
		return vp.elems[0], Resolved
	}
	return ValuePath{path: rest, elems: vp.elems}, Resolved
}

func (vp ValuePath) scalarOnly() bool {
	for _, e := range vp.elems {
		if !e.leaf {
			return false
		}
	}
	return true
}

// Flatten returns every scalar in the tree with its full path.
func (vp ValuePath) Flatten() []Assignment {
	var out []Assignment
	vp.flatten(nil, &out)
	return out
}

func (vp ValuePath) flatten(prefix Path, out *[]Assignment) {
	full := prefix.Join(vp.path)
	if vp.leaf {
		*out = append(*out, Assignment{Path: full, Value: vp.value})
		return
	}
	for _, e := range vp.elems {
		e.flatten(full, out)
	}
}

// String renders the value path as p(v, child(...)).
func (vp ValuePath) String() string {
	if vp.leaf {
		return fmt.Sprintf("%#x", vp.value)
	}
	var b strings.Builder
	b.WriteString(vp.path.String())
	b.WriteByte('(')
	for i, e := range vp.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}
