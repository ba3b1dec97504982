package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/version"
	"github.com/regio-project/regio-go/pkg/wire"
)

// Client errors.
var (
	ErrRequestTimeout  = errors.New("request timed out")
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// RequestSender sends encoded requests over a connection.
type RequestSender interface {
	Send(data []byte) error
}

// Client is a bus.Bus backed by a remote bus daemon. Responses are fed in
// by the connection's read loop through HandleResponse.
type Client struct {
	mu sync.RWMutex

	sender    RequestSender
	timeout   time.Duration
	logger    log.Logger
	sessionID string
	closed    bool

	nextMsgID atomic.Uint32

	pending   map[uint32]chan *wire.Response
	pendingMu sync.Mutex
}

// NewClient creates a client sending through sender.
func NewClient(sender RequestSender) *Client {
	return &Client{
		sender:  sender,
		timeout: 10 * time.Second,
		pending: make(map[uint32]chan *wire.Response),
	}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// SetLogger enables message logging under the given session ID.
func (c *Client) SetLogger(logger log.Logger, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	c.sessionID = sessionID
}

// Close fails all pending and future requests with bus.ErrBusClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.pendingMu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
	return nil
}

func (c *Client) nextMessageID() uint32 {
	for {
		if id := c.nextMsgID.Add(1); id != 0 {
			return id
		}
	}
}

// HandleResponse routes a response to the request waiting for it.
func (c *Client) HandleResponse(resp *wire.Response) error {
	c.pendingMu.Lock()
	ch, ok := c.pending[resp.MessageID]
	if ok {
		delete(c.pending, resp.MessageID)
	}
	c.pendingMu.Unlock()

	if !ok {
		return fmt.Errorf("%w: messageId %d", ErrUnexpectedReply, resp.MessageID)
	}
	c.logResponse(resp, 0)
	ch <- resp
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	c.mu.RLock()
	closed, timeout := c.closed, c.timeout
	c.mu.RUnlock()
	if closed {
		return nil, bus.ErrBusClosed
	}

	req.MessageID = c.nextMessageID()
	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan *wire.Response, 1)
	c.pendingMu.Lock()
	c.pending[req.MessageID] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, req.MessageID)
		c.pendingMu.Unlock()
	}()

	c.logRequest(req)
	if err := c.sender.Send(data); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s after %s", ErrRequestTimeout, req.Operation, timeout)
	case resp, ok := <-ch:
		if !ok {
			return nil, bus.ErrBusClosed
		}
		if err := resp.Err(); err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// Hello negotiates the protocol version with the daemon.
func (c *Client) Hello(ctx context.Context) (version.ProtocolVersion, error) {
	resp, err := c.roundTrip(ctx, &wire.Request{Operation: wire.OpHello, Version: version.Current})
	if err != nil {
		return version.ProtocolVersion{}, err
	}
	return version.Negotiate(version.Current, resp.Version)
}

// Describe returns the memory regions the daemon serves.
func (c *Client) Describe(ctx context.Context) ([]wire.RegionInfo, error) {
	resp, err := c.roundTrip(ctx, &wire.Request{Operation: wire.OpDescribe})
	if err != nil {
		return nil, err
	}
	return resp.Regions, nil
}

// Read reads one register from the daemon.
func (c *Client) Read(ctx context.Context, t bus.Target, mask uint64) (uint64, error) {
	resp, err := c.roundTrip(ctx, &wire.Request{
		Operation: wire.OpRead,
		Register:  t.Name,
		Address:   t.Address,
		Width:     uint8(t.Width),
		Mask:      mask,
	})
	if err != nil {
		return 0, fmt.Errorf("remote read %s: %w", t.Name, err)
	}
	return resp.Value & t.Mask(), nil
}

// Write writes one register through the daemon.
func (c *Client) Write(ctx context.Context, t bus.Target, w bus.Write) error {
	_, err := c.roundTrip(ctx, &wire.Request{
		Operation:     wire.OpWrite,
		Register:      t.Name,
		Address:       t.Address,
		Width:         uint8(t.Width),
		Mask:          w.Mask,
		IdentityMask:  w.IdentityMask,
		IdentityValue: w.IdentityValue,
		Value:         w.Value,
	})
	if err != nil {
		return fmt.Errorf("remote write %s: %w", t.Name, err)
	}
	return nil
}

// Synchronous reports false: remote requests wait on the network.
func (c *Client) Synchronous() bool { return false }

var _ bus.Bus = (*Client)(nil)

func (c *Client) logRequest(req *wire.Request) {
	c.mu.RLock()
	logger, sid := c.logger, c.sessionID
	c.mu.RUnlock()
	if logger == nil {
		return
	}
	logger.Log(requestEvent(sid, log.DirectionOut, req))
}

func (c *Client) logResponse(resp *wire.Response, took time.Duration) {
	c.mu.RLock()
	logger, sid := c.logger, c.sessionID
	c.mu.RUnlock()
	if logger == nil {
		return
	}
	logger.Log(responseEvent(sid, log.DirectionIn, resp, took))
}

func requestEvent(sid string, dir log.Direction, req *wire.Request) log.Event {
	op := req.Operation
	msg := &log.MessageEvent{
		Type:      log.MessageTypeRequest,
		MessageID: req.MessageID,
		Operation: &op,
		Register:  req.Register,
	}
	if req.Operation.IsAccess() {
		addr := req.Address
		msg.Address = &addr
	}
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sid,
		Direction: dir,
		Layer:     log.LayerRemote,
		Category:  log.CategoryMessage,
		Message:   msg,
	}
}

func responseEvent(sid string, dir log.Direction, resp *wire.Response, took time.Duration) log.Event {
	status := resp.Status
	msg := &log.MessageEvent{
		Type:      log.MessageTypeResponse,
		MessageID: resp.MessageID,
		Status:    &status,
	}
	if took > 0 {
		msg.ProcessingTime = &took
	}
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sid,
		Direction: dir,
		Layer:     log.LayerRemote,
		Category:  log.CategoryMessage,
		Message:   msg,
	}
}
