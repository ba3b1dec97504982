package transport

import (
	"net"
	"time"
)

// Connection is the part of Conn the remote bus needs. Tests substitute
// in-memory links for it.
type Connection interface {
	ID() string
	RemoteAddr() net.Addr
	Send(data []byte) error

	// Receive waits for the next message. A zero timeout waits forever.
	Receive(timeout time.Duration) ([]byte, error)

	// Done is closed when the connection is closed.
	Done() <-chan struct{}
	Close() error
}

var _ Connection = (*Conn)(nil)
