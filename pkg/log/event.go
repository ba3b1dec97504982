package log

import (
	"time"

	"github.com/regio-project/regio-go/pkg/wire"
)

// Event is a trace record captured at one of the library layers.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the tracing session or remote connection (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to this process.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Group is the register group name, when known.
	Group string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port) for remote transports.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Bus         *BusEvent         `cbor:"10,keyasint,omitempty"` // Bus layer
	Frame       *FrameEvent       `cbor:"11,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"12,keyasint,omitempty"` // Remote layer (decoded)
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"` // Connection state
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates data flow.
type Direction uint8

const (
	// DirectionIn indicates data arriving (register read, received frame).
	DirectionIn Direction = 0
	// DirectionOut indicates data leaving (register write, sent frame).
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerBus is the register transaction layer.
	LayerBus Layer = 0
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 1
	// LayerRemote is the remote bus message layer (decoded CBOR).
	LayerRemote Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBus:
		return "BUS"
	case LayerTransport:
		return "TRANSPORT"
	case LayerRemote:
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTransaction indicates a register read or write.
	CategoryTransaction Category = 0
	// CategoryMessage indicates a remote request or response.
	CategoryMessage Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransaction:
		return "TRANSACTION"
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// BusOp is the kind of register transaction.
type BusOp uint8

const (
	// BusOpRead is a register read.
	BusOpRead BusOp = 0
	// BusOpWrite is a register write.
	BusOpWrite BusOp = 1
)

// String returns the operation name.
func (o BusOp) String() string {
	switch o {
	case BusOpRead:
		return "READ"
	case BusOpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// BusEvent captures one register transaction.
type BusEvent struct {
	Op       BusOp  `cbor:"1,keyasint"`
	Register string `cbor:"2,keyasint"`
	Address  uint64 `cbor:"3,keyasint"`
	Width    int    `cbor:"4,keyasint"`

	// Mask is the read mask, or the write mask.
	Mask uint64 `cbor:"5,keyasint"`

	// Write-only parameters.
	IdentityMask  uint64 `cbor:"6,keyasint,omitempty"`
	IdentityValue uint64 `cbor:"7,keyasint,omitempty"`

	// Value read or written.
	Value uint64 `cbor:"8,keyasint"`

	// Duration of the transaction as seen by the caller.
	Duration time.Duration `cbor:"9,keyasint,omitempty"`

	// Failed is set when the transport returned an error.
	Failed bool `cbor:"10,keyasint,omitempty"`
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded remote bus message.
type MessageEvent struct {
	// Type distinguishes request/response.
	Type MessageType `cbor:"1,keyasint"`

	// MessageID correlates request/response pairs.
	MessageID uint32 `cbor:"2,keyasint"`

	// For requests: the operation being performed.
	Operation *wire.Operation `cbor:"3,keyasint,omitempty"`

	// For requests: the target register name.
	Register string `cbor:"4,keyasint,omitempty"`

	// For requests: the target address.
	Address *uint64 `cbor:"5,keyasint,omitempty"`

	// For responses: the status code.
	Status *wire.Status `cbor:"6,keyasint,omitempty"`

	// ProcessingTime is the duration from request receipt to response send
	// (response only).
	ProcessingTime *time.Duration `cbor:"7,keyasint,omitempty"`
}

// MessageType distinguishes request/response.
type MessageType uint8

const (
	// MessageTypeRequest indicates a request message.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse indicates a response message.
	MessageTypeResponse MessageType = 1
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
