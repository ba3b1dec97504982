package wire

// Status is a response status code.
type Status uint8

const (
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess Status = 0

	// StatusInvalidRequest indicates a malformed or out of order request.
	StatusInvalidRequest Status = 1

	// StatusBusError indicates the backing bus failed the access.
	StatusBusError Status = 2

	// StatusOutOfRange indicates the address is outside every served region.
	StatusOutOfRange Status = 3

	// StatusMisaligned indicates the address is not aligned to the width.
	StatusMisaligned Status = 4

	// StatusNotAuthorized indicates the connection did not authenticate.
	StatusNotAuthorized Status = 5

	// StatusUnsupported indicates an unsupported width or version.
	StatusUnsupported Status = 6
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidRequest:
		return "INVALID_REQUEST"
	case StatusBusError:
		return "BUS_ERROR"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusMisaligned:
		return "MISALIGNED"
	case StatusNotAuthorized:
		return "NOT_AUTHORIZED"
	case StatusUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// StatusError is the error form of a failed response.
type StatusError struct {
	Status  Status
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "remote bus: " + e.Status.String()
	}
	return "remote bus: " + e.Status.String() + ": " + e.Message
}

// Is matches another *StatusError with the same status, so callers can
// test errors.Is(err, &wire.StatusError{Status: wire.StatusOutOfRange}).
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	return ok && t.Status == e.Status
}
