package transport

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/regio-project/regio-go/pkg/log"
)

// ErrConnectionClosed is returned for operations on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Conn is a framed, authenticated connection. Either side of a remote
// bus link uses the same type.
type Conn struct {
	conn   net.Conn
	framer *Framer
	id     string
	logger log.Logger

	closeCh   chan struct{}
	closeOnce sync.Once
	readMu    sync.Mutex
}

func newConn(nc net.Conn, maxSize uint32, logger log.Logger) *Conn {
	c := &Conn{
		conn:    nc,
		framer:  NewFramerWithMaxSize(nc, maxSize),
		id:      uuid.New().String(),
		logger:  logger,
		closeCh: make(chan struct{}),
	}
	if logger != nil {
		c.framer.SetLogger(logger, c.id)
	}
	return c
}

// ID returns the unique connection identifier.
func (c *Conn) ID() string { return c.id }

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.closeCh }

// Send sends one message. It is safe for concurrent use.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Receive waits for the next message. A zero timeout waits forever.
func (c *Conn) Receive(timeout time.Duration) ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	select {
	case <-c.closeCh:
		return nil, ErrConnectionClosed
	default:
	}

	if timeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
		defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()
	}

	data, err := c.framer.ReadFrame()
	if err != nil {
		select {
		case <-c.closeCh:
			return nil, ErrConnectionClosed
		default:
		}
	}
	return data, err
}

// Close closes the connection. Further calls are no-ops.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) logState(old, state, reason string) {
	if c.logger == nil {
		return
	}
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.id,
		Layer:      log.LayerTransport,
		Category:   log.CategoryState,
		RemoteAddr: c.conn.RemoteAddr().String(),
		StateChange: &log.StateChangeEvent{
			OldState: old,
			NewState: state,
			Reason:   reason,
		},
	})
}
