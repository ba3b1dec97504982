package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/regio-project/regio-go/pkg/log"
)

// ClientConfig configures Dial.
type ClientConfig struct {
	// PSK answers the server challenge when non-empty. It must match the
	// server's key.
	PSK []byte

	// MaxMessageSize is the maximum message size (default: 64KB).
	MaxMessageSize uint32

	// ConnectTimeout applies when ctx has no deadline (default: 10s).
	ConnectTimeout time.Duration

	// Logger for frame logging (optional).
	Logger log.Logger
}

// Dial connects to a remote bus server and authenticates.
func Dial(ctx context.Context, address string, config ClientConfig) (*Conn, error) {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	nc, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	conn := newConn(nc, config.MaxMessageSize, config.Logger)
	if len(config.PSK) > 0 {
		if dl, ok := ctx.Deadline(); ok {
			_ = nc.SetDeadline(dl)
		}
		err := clientHandshake(conn.framer, config.PSK)
		_ = nc.SetDeadline(time.Time{})
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("handshake with %s: %w", address, err)
		}
	}

	conn.logState("", "CONNECTED", "")
	return conn, nil
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrFrameTruncated)
}
