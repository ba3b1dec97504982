package regio

import (
	"errors"
	"fmt"

	"github.com/regio-project/regio-go/pkg/path"
)

// Lookup errors.
var (
	ErrInvalidLookup   = errors.New("invalid path")
	ErrAmbiguousLookup = errors.New("ambiguous path")
	ErrValueRange      = errors.New("value out of range")
	ErrNotSingle       = errors.New("result holds more than one path")
)

// LookupError reports a path that does not select exactly one register
// of a read result or write spec.
type LookupError struct {
	In   string // "read result" or "write spec"
	Path path.Path
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v in %s lookup: %s", e.Err, e.In, e.Path)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ValueRangeError reports a value that does not fit its field.
type ValueRangeError struct {
	Path  path.Path
	Value uint64
	Max   uint64
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("%v: %#x for %s (max %#x)", ErrValueRange, e.Value, e.Path, e.Max)
}

func (e *ValueRangeError) Unwrap() error { return ErrValueRange }
