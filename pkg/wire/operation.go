package wire

// Operation is a remote bus request type.
type Operation uint8

const (
	// OpHello negotiates the protocol version.
	OpHello Operation = 1

	// OpRead reads one register.
	OpRead Operation = 2

	// OpWrite writes one register.
	OpWrite Operation = 3

	// OpDescribe lists the served memory regions.
	OpDescribe Operation = 4
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpHello:
		return "Hello"
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	case OpDescribe:
		return "Describe"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the operation is known.
func (o Operation) IsValid() bool {
	return o >= OpHello && o <= OpDescribe
}

// IsAccess returns true for operations that touch a register.
func (o Operation) IsAccess() bool {
	return o == OpRead || o == OpWrite
}
