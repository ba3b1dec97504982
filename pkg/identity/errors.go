package identity

import (
	"errors"
	"fmt"
)

// Access violation sentinels.
var (
	ErrReadOnlyViolation  = errors.New("read-only violation")
	ErrWriteOnlyViolation = errors.New("write-only violation")
)

// Op is the kind of access being checked.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// AccessError reports an access that would violate a read-only or
// write-only policy. Field is empty when the offending bits belong to no
// field of the register.
type AccessError struct {
	Register string
	Field    string
	Op       Op
	Err      error

	msg string
}

func (e *AccessError) Error() string { return e.msg }

func (e *AccessError) Unwrap() error { return e.Err }

func readOnlyField(reg, field string) *AccessError {
	return &AccessError{
		Register: reg, Field: field, Op: OpWrite, Err: ErrReadOnlyViolation,
		msg: "attempting to write to a read-only field: " + field,
	}
}

func readOnlyRegister(reg string) *AccessError {
	return &AccessError{
		Register: reg, Op: OpWrite, Err: ErrReadOnlyViolation,
		msg: "attempting to write to a read-only register: " + reg,
	}
}

func rmwWriteOnlyField(reg, field string) *AccessError {
	return &AccessError{
		Register: reg, Field: field, Op: OpWrite, Err: ErrWriteOnlyViolation,
		msg: "write would incur RMW on a write-only field: " + field,
	}
}

func rmwWriteOnlyBits(reg string) *AccessError {
	return &AccessError{
		Register: reg, Op: OpWrite, Err: ErrWriteOnlyViolation,
		msg: fmt.Sprintf("write to register %s containing write-only bits which are not covered by the write", reg),
	}
}

func writeOnlyField(reg, field string) *AccessError {
	return &AccessError{
		Register: reg, Field: field, Op: OpRead, Err: ErrWriteOnlyViolation,
		msg: "attempting to read from a write-only field: " + field,
	}
}

func writeOnlyRegister(reg string) *AccessError {
	return &AccessError{
		Register: reg, Op: OpRead, Err: ErrWriteOnlyViolation,
		msg: "attempting to read from a write-only register: " + reg,
	}
}

func writeOnlyBits(reg string) *AccessError {
	return &AccessError{
		Register: reg, Op: OpRead, Err: ErrWriteOnlyViolation,
		msg: fmt.Sprintf("read from register %s would read from bits marked write-only", reg),
	}
}
