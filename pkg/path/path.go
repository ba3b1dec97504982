// Package path implements dotted register paths and value paths.
//
// A path is an ordered sequence of names, root-first, such as
// "uart.ctrl.enable". Paths carry no value; a ValuePath pairs a path with
// either a scalar value or a tuple of nested value paths, enabling
// tree-shaped value literals:
//
//	path.V("ctrl", path.V("enable", 1), path.V("parity", 2))
package path

import (
	"errors"
	"fmt"
	"strings"
)

// Separator is the character between path segments.
const Separator = "."

// Path errors.
var (
	ErrInvalidPath = errors.New("invalid path format")
	ErrMismatch    = errors.New("attempting to access value with a mismatched path")
	ErrTooLong     = errors.New("attempting to access value with a path that is too long")
	ErrAmbiguous   = errors.New("attempting to access value with an ambiguous path")
	ErrUnresolved  = errors.New("path does not resolve")
)

// Result is the outcome kind of a resolution.
type Result uint8

const (
	// Resolved indicates exactly one match.
	Resolved Result = iota

	// Mismatch indicates the path's prefix does not align with the target.
	Mismatch

	// TooLong indicates the path exceeds the depth available at the target.
	TooLong

	// Ambiguous indicates more than one match.
	Ambiguous

	// Unresolved indicates no match.
	Unresolved
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Resolved:
		return "RESOLVED"
	case Mismatch:
		return "MISMATCH"
	case TooLong:
		return "TOO_LONG"
	case Ambiguous:
		return "AMBIGUOUS"
	case Unresolved:
		return "UNRESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Err returns the sentinel error for a failed result, or nil for Resolved.
func (r Result) Err() error {
	switch r {
	case Resolved:
		return nil
	case Mismatch:
		return ErrMismatch
	case TooLong:
		return ErrTooLong
	case Ambiguous:
		return ErrAmbiguous
	default:
		return ErrUnresolved
	}
}

// Path is an ordered sequence of names, root-first.
// The zero value is the empty path.
type Path []string

// Parse parses a dotted path. The empty string yields the empty path.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, Separator)
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		if strings.ContainsAny(part, " \t=") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
	}
	return Path(parts), nil
}

// MustParse is like Parse but panics on error.
// Intended for package-level declarations of constant paths.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// New builds a path from already split segments.
func New(segments ...string) Path {
	if len(segments) == 0 {
		return nil
	}
	p := make(Path, len(segments))
	copy(p, segments)
	return p
}

// String returns the dotted representation.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p) }

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool { return len(p) == 0 }

// Root returns the first segment, or "" for the empty path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// WithoutRoot returns the path minus its first segment.
func (p Path) WithoutRoot() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[1:]
}

// Last returns the final segment, or "" for the empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Join returns a new path made of p followed by other.
func (p Path) Join(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading subsequence of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// HasSuffix reports whether suffix is a trailing subsequence of p.
func (p Path) HasSuffix(suffix Path) bool {
	return len(suffix) <= len(p) && p[len(p)-len(suffix):].Equal(suffix)
}

// Resolve resolves lookup against p, treating p as the full path of some
// value. When lookup is a prefix of p, the leftover suffix is returned.
//
//	MustParse("a.b.c").Resolve(MustParse("a.b")) // "c", Resolved
//	MustParse("a.b.c").Resolve(MustParse("c"))   // Mismatch
//	MustParse("a").Resolve(MustParse("a.b"))     // TooLong
func (p Path) Resolve(lookup Path) (Path, Result) {
	if len(lookup) > len(p) {
		return nil, TooLong
	}
	if !p.HasPrefix(lookup) {
		return nil, Mismatch
	}
	rest := p[len(lookup):]
	if len(rest) == 0 {
		return nil, Resolved
	}
	return rest, Resolved
}
