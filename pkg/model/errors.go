package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/regio-project/regio-go/pkg/path"
)

// Tree construction errors.
var (
	ErrInvalidName     = errors.New("invalid entity name")
	ErrDuplicateName   = errors.New("duplicate sibling name")
	ErrFieldRange      = errors.New("field bit range out of bounds")
	ErrFieldOverlap    = errors.New("field bit ranges overlap")
	ErrInvalidWidth    = errors.New("invalid register width")
	ErrInvalidPolicy   = errors.New("invalid write function policy")
	ErrAlreadyAttached = errors.New("entity already belongs to a tree")
)

// Path set errors.
var (
	ErrDuplicatePath    = errors.New("duplicate path passed to group")
	ErrRedundantPath    = errors.New("redundant path passed to group")
	ErrUnresolvablePath = errors.New("unresolvable path(s) passed to group")
)

// TreeError reports an invalid entity found while building a tree.
type TreeError struct {
	Entity string // dotted path of the offending entity
	Err    error
	Detail string
}

func (e *TreeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Entity, e.Err, e.Detail)
}

func (e *TreeError) Unwrap() error { return e.Err }

// ResolveError reports a path that does not denote exactly one entity.
type ResolveError struct {
	From   string // name of the entity resolution started at
	Path   path.Path
	Result path.Result
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%v: %q from %q", e.Result.Err(), e.Path.String(), e.From)
}

func (e *ResolveError) Unwrap() error { return e.Result.Err() }

// ConfigError reports a path set rejected by a group. It names the group,
// the offending paths and the rule violated.
type ConfigError struct {
	Group string
	Paths []path.Path
	Err   error // rule sentinel
	Cause error // optional underlying failure
}

func (e *ConfigError) Error() string {
	names := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		names[i] = p.String()
	}
	msg := fmt.Sprintf("%v: [%s] (group [%s])", e.Err, strings.Join(names, " "), e.Group)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
