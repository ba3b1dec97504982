package wire

import (
	"errors"
	"fmt"
)

// Request validation errors.
var (
	ErrReservedMessageID = errors.New("messageId 0 is reserved")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidWidth      = errors.New("invalid register width")
	ErrMissingVersion    = errors.New("hello without version")
)

// Request is a message from client to bus daemon.
//
// CBOR encoding:
//
//	{
//	  1: messageId,      // uint32, never 0
//	  2: operation,      // uint8
//	  3: register,       // string, for tracing only
//	  4: address,        // uint64
//	  5: width,          // uint8: 8, 16, 32 or 64
//	  6: mask,           // uint64
//	  7: identityMask,   // uint64, write only
//	  8: identityValue,  // uint64, write only
//	  9: value,          // uint64, write only
//	  10: version        // string, hello only
//	}
type Request struct {
	MessageID     uint32    `cbor:"1,keyasint"`
	Operation     Operation `cbor:"2,keyasint"`
	Register      string    `cbor:"3,keyasint,omitempty"`
	Address       uint64    `cbor:"4,keyasint,omitempty"`
	Width         uint8     `cbor:"5,keyasint,omitempty"`
	Mask          uint64    `cbor:"6,keyasint,omitempty"`
	IdentityMask  uint64    `cbor:"7,keyasint,omitempty"`
	IdentityValue uint64    `cbor:"8,keyasint,omitempty"`
	Value         uint64    `cbor:"9,keyasint,omitempty"`
	Version       string    `cbor:"10,keyasint,omitempty"`
}

// Validate checks if the request is well formed.
func (r *Request) Validate() error {
	if r.MessageID == 0 {
		return ErrReservedMessageID
	}
	if !r.Operation.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidOperation, r.Operation)
	}
	switch r.Operation {
	case OpHello:
		if r.Version == "" {
			return ErrMissingVersion
		}
	case OpRead, OpWrite:
		switch r.Width {
		case 8, 16, 32, 64:
		default:
			return fmt.Errorf("%w: %d", ErrInvalidWidth, r.Width)
		}
	}
	return nil
}

// RegionInfo describes one memory region served by a bus daemon.
type RegionInfo struct {
	Name string `cbor:"1,keyasint"`
	Base uint64 `cbor:"2,keyasint"`
	Size uint64 `cbor:"3,keyasint"`
}

// Contains reports whether the region holds addr.
func (r RegionInfo) Contains(addr uint64) bool {
	return addr >= r.Base && addr-r.Base < r.Size
}

// Response is a message from bus daemon to client.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32, matches the request
//	  2: status,     // uint8: 0=success, or error code
//	  3: value,      // uint64, read only
//	  4: message,    // string, error detail
//	  5: version,    // string, hello only
//	  6: regions     // array, describe only
//	}
type Response struct {
	MessageID uint32       `cbor:"1,keyasint"`
	Status    Status       `cbor:"2,keyasint"`
	Value     uint64       `cbor:"3,keyasint,omitempty"`
	Message   string       `cbor:"4,keyasint,omitempty"`
	Version   string       `cbor:"5,keyasint,omitempty"`
	Regions   []RegionInfo `cbor:"6,keyasint,omitempty"`
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// Err returns a *StatusError for failed responses, nil otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &StatusError{Status: r.Status, Message: r.Message}
}

// ErrorResponse returns a failed response for the request with id.
func ErrorResponse(id uint32, status Status, msg string) *Response {
	return &Response{MessageID: id, Status: status, Message: msg}
}
