package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// Assignment errors.
var (
	ErrEmptyAssignment = errors.New("empty assignment")
	ErrMissingValue    = errors.New("missing value in assignment")
	ErrInvalidNumber   = errors.New("invalid numeric value")
	ErrUnknownEnum     = errors.New("unknown enum value")
)

// Assignment is a parsed "path=value" expression. Exactly one of Value
// (when Numeric) or Enum is meaningful.
type Assignment struct {
	Path    path.Path
	Value   uint64
	Enum    string
	Numeric bool
}

// ParseAssignment parses "reg.field=value". The value is a number in
// decimal, hex (0x), binary (0b) or octal (0o) notation, optionally with
// "_" separators, or an enum name.
func ParseAssignment(s string) (Assignment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Assignment{}, ErrEmptyAssignment
	}

	lhs, rhs, ok := strings.Cut(s, "=")
	lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)
	if lhs == "" {
		return Assignment{}, fmt.Errorf("%w: no path in %q", ErrEmptyAssignment, s)
	}
	if !ok || rhs == "" {
		return Assignment{}, fmt.Errorf("%w: %q", ErrMissingValue, s)
	}

	p, err := path.Parse(lhs)
	if err != nil {
		return Assignment{}, err
	}

	a := Assignment{Path: p}
	if isDigit(rhs[0]) {
		v, err := ParseValue(rhs)
		if err != nil {
			return Assignment{}, err
		}
		a.Value, a.Numeric = v, true
		return a, nil
	}
	a.Enum = rhs
	return a, nil
}

// ParseValue parses a number in decimal, 0x, 0b or 0o notation.
func ParseValue(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// Resolve returns the numeric value of the assignment for group g,
// looking enum names up on the target field.
func (a Assignment) Resolve(g *model.Group) (path.ValuePath, error) {
	if a.Numeric {
		return path.Of(a.Path, a.Value), nil
	}
	o := g.Resolve(a.Path)
	if err := o.Err(); err != nil {
		return path.ValuePath{}, err
	}
	f, ok := o.Entity.(*model.Field)
	if !ok {
		return path.ValuePath{}, fmt.Errorf("%w: %s is not a field", ErrUnknownEnum, a.Path)
	}
	v, ok := f.EnumValue(a.Enum)
	if !ok {
		return path.ValuePath{}, fmt.Errorf("%w: %s for %s (have %s)",
			ErrUnknownEnum, a.Enum, a.Path, strings.Join(f.EnumNames(), ", "))
	}
	return path.Of(a.Path, v), nil
}

// ParseAssignments parses and resolves each "path=value" argument.
func ParseAssignments(g *model.Group, args []string) ([]path.ValuePath, error) {
	out := make([]path.ValuePath, 0, len(args))
	for _, arg := range args {
		a, err := ParseAssignment(arg)
		if err != nil {
			return nil, err
		}
		vp, err := a.Resolve(g)
		if err != nil {
			return nil, err
		}
		out = append(out, vp)
	}
	return out, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
