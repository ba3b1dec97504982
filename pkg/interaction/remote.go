package interaction

import (
	"context"
	"fmt"

	"github.com/regio-project/regio-go/pkg/transport"
	"github.com/regio-project/regio-go/pkg/version"
	"github.com/regio-project/regio-go/pkg/wire"
)

// RemoteBus is a Client attached to its own transport connection.
type RemoteBus struct {
	*Client

	conn       transport.Connection
	negotiated version.ProtocolVersion
	done       chan struct{}
}

// Connect dials a bus daemon, starts the response loop and performs the
// Hello exchange.
func Connect(ctx context.Context, address string, config transport.ClientConfig) (*RemoteBus, error) {
	conn, err := transport.Dial(ctx, address, config)
	if err != nil {
		return nil, err
	}
	rb, err := Attach(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	if config.Logger != nil {
		rb.SetLogger(config.Logger, conn.ID())
	}
	return rb, nil
}

// Attach runs the client protocol over an established connection.
func Attach(ctx context.Context, conn transport.Connection) (*RemoteBus, error) {
	rb := &RemoteBus{
		Client: NewClient(conn),
		conn:   conn,
		done:   make(chan struct{}),
	}
	go rb.receiveLoop()

	v, err := rb.Hello(ctx)
	if err != nil {
		_ = rb.Close()
		return nil, err
	}
	rb.negotiated = v
	return rb, nil
}

func (rb *RemoteBus) receiveLoop() {
	defer close(rb.done)
	defer rb.Client.Close()
	for {
		data, err := rb.conn.Receive(0)
		if err != nil {
			return
		}
		resp, err := wire.DecodeResponse(data)
		if err != nil {
			continue
		}
		_ = rb.HandleResponse(resp)
	}
}

// Version returns the negotiated protocol version.
func (rb *RemoteBus) Version() version.ProtocolVersion { return rb.negotiated }

// Done is closed once the response loop has stopped.
func (rb *RemoteBus) Done() <-chan struct{} { return rb.done }

// Close closes the client and its connection.
func (rb *RemoteBus) Close() error {
	_ = rb.Client.Close()
	return rb.conn.Close()
}
