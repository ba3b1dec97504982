package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regio-project/regio-go/pkg/async"
	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/mmio"
	"github.com/regio-project/regio-go/pkg/path"
	"github.com/regio-project/regio-go/pkg/regio"
	"github.com/regio-project/regio-go/pkg/transport"
	"github.com/regio-project/regio-go/pkg/wire"
)

// loopSender hands every request to a server and feeds the reply back to
// the client, without a network in between.
type loopSender struct {
	srv    *Server
	client *Client
	drop   bool
}

func (l *loopSender) Send(data []byte) error {
	if l.drop {
		return nil
	}
	go func() {
		resp := l.srv.handle(context.Background(), "loop", data)
		_ = l.client.HandleResponse(resp)
	}()
	return nil
}

func newLoop(t *testing.T, regions ...wire.RegionInfo) (*Client, *mmio.Region) {
	t.Helper()
	mem := mmio.NewRegion(0, 0x100)
	ls := &loopSender{srv: NewServer(mmio.NewBus(mem), regions...)}
	c := NewClient(ls)
	ls.client = c
	return c, mem
}

func TestRequiresHello(t *testing.T) {
	c, _ := newLoop(t)
	_, err := c.Read(context.Background(), bus.Target{Name: "r", Address: 0, Width: 32}, 0xffffffff)

	var se *wire.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, wire.StatusInvalidRequest, se.Status)
}

func TestHelloNegotiates(t *testing.T) {
	c, _ := newLoop(t)
	v, err := c.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0", v.String())
}

func TestReadWrite(t *testing.T) {
	c, mem := newLoop(t)
	ctx := context.Background()
	_, err := c.Hello(ctx)
	require.NoError(t, err)

	require.NoError(t, mem.Poke(0x10, 4, 0xaabbccdd))
	tgt := bus.Target{Name: "r", Address: 0x10, Width: 32}

	v, err := c.Read(ctx, tgt, 0xffffffff)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xaabbccdd), v)

	require.NoError(t, c.Write(ctx, tgt, bus.Write{Mask: 0xff00, Value: 0x1100}))
	got, err := mem.Peek(0x10, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xaabb11dd), got)
}

func TestWriteIdentityAppliedByDaemon(t *testing.T) {
	c, mem := newLoop(t)
	ctx := context.Background()
	_, err := c.Hello(ctx)
	require.NoError(t, err)

	require.NoError(t, mem.Poke(0x20, 4, 0xffffffff))
	tgt := bus.Target{Name: "irq", Address: 0x20, Width: 32}
	w := bus.Write{Mask: 0x0f, IdentityMask: 0xffffff00, IdentityValue: 0, Value: 0x05}
	require.NoError(t, c.Write(ctx, tgt, w))

	got, err := mem.Peek(0x20, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xf5), got)
}

func TestOutsideRegionRejected(t *testing.T) {
	c, _ := newLoop(t, wire.RegionInfo{Name: "low", Base: 0, Size: 0x10})
	ctx := context.Background()
	_, err := c.Hello(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		tgt  bus.Target
		ok   bool
	}{
		{"inside", bus.Target{Name: "a", Address: 0x0, Width: 32}, true},
		{"last word", bus.Target{Name: "b", Address: 0xc, Width: 32}, true},
		{"straddles end", bus.Target{Name: "c", Address: 0xc, Width: 64}, false},
		{"outside", bus.Target{Name: "d", Address: 0x40, Width: 32}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Read(ctx, tt.tgt, tt.tgt.Mask())
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, &wire.StatusError{Status: wire.StatusOutOfRange}), "got %v", err)
		})
	}
}

func TestDescribe(t *testing.T) {
	regions := []wire.RegionInfo{{Name: "uart", Base: 0x1000, Size: 0x100}}
	c, _ := newLoop(t, regions...)
	ctx := context.Background()
	_, err := c.Hello(ctx)
	require.NoError(t, err)

	got, err := c.Describe(ctx)
	require.NoError(t, err)
	assert.Equal(t, regions, got)
}

func TestBackingErrorsMapped(t *testing.T) {
	tests := []struct {
		err  error
		want wire.Status
	}{
		{&mmio.AccessError{Op: "load", Addr: 0x400, Size: 4, Err: mmio.ErrOutOfRange}, wire.StatusOutOfRange},
		{mmio.ErrMisaligned, wire.StatusMisaligned},
		{bus.ErrUnsupportedWidth, wire.StatusUnsupported},
		{mmio.ErrAccessSize, wire.StatusUnsupported},
		{errors.New("parity"), wire.StatusBusError},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			resp := errorResponse(7, tt.err)
			assert.Equal(t, uint32(7), resp.MessageID)
			assert.Equal(t, tt.want, resp.Status)
			assert.Contains(t, resp.Message, tt.err.Error())
		})
	}
}

func TestMalformedRequest(t *testing.T) {
	srv := NewServer(mmio.NewBus(mmio.NewRegion(0, 0x10)))
	resp := srv.handle(context.Background(), "x", []byte{0xff, 0x00})
	assert.Equal(t, wire.StatusInvalidRequest, resp.Status)
}

func TestRequestTimeout(t *testing.T) {
	c, _ := newLoop(t)
	c.sender.(*loopSender).drop = true
	c.SetTimeout(20 * time.Millisecond)

	_, err := c.Hello(context.Background())
	assert.ErrorIs(t, err, ErrRequestTimeout)

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	assert.Empty(t, c.pending)
}

func TestClosedClient(t *testing.T) {
	c, _ := newLoop(t)
	require.NoError(t, c.Close())
	_, err := c.Read(context.Background(), bus.Target{Name: "r", Width: 8}, 0xff)
	assert.ErrorIs(t, err, bus.ErrBusClosed)
}

func TestUnexpectedResponse(t *testing.T) {
	c, _ := newLoop(t)
	err := c.HandleResponse(&wire.Response{MessageID: 99})
	assert.ErrorIs(t, err, ErrUnexpectedReply)
}

func TestRemoteRegisterAccess(t *testing.T) {
	mem := mmio.NewRegion(0, examples.WindowSize)
	srv := NewServer(mmio.NewBus(mem), wire.RegionInfo{Name: "window", Base: 0, Size: examples.WindowSize})

	psk := []byte("0123456789abcdef")
	ts := transport.NewServer(transport.ServerConfig{
		Address:      "127.0.0.1:0",
		PSK:          psk,
		OnMessage:    func(c *transport.Conn, msg []byte) { srv.HandleMessage(c, msg) },
		OnDisconnect: func(c *transport.Conn) { srv.Forget(c) },
	})
	require.NoError(t, ts.Start(context.Background()))
	t.Cleanup(func() { _ = ts.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rb, err := Connect(ctx, ts.Addr().String(), transport.ClientConfig{PSK: psk})
	require.NoError(t, err)
	defer rb.Close()
	assert.Equal(t, "1.0", rb.Version().String())
	assert.False(t, bus.IsSynchronous(rb))

	g, err := examples.UART(rb)
	require.NoError(t, err)

	require.NoError(t, regio.BlockingWrite(ctx, g,
		path.V("ctrl.baud_div", 0x1234),
		path.V("ctrl.enable", 1),
	))
	got, err := mem.Peek(examples.UARTBase, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12340001), got)

	r, err := regio.BlockingRead(ctx, g, "ctrl.baud_div")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), r.MustGet("ctrl.baud_div"))

	_, err = regio.SyncRead(ctx, g, "ctrl")
	assert.ErrorIs(t, err, async.ErrWouldBlock)
}

func TestRemoteBusClosesWithConnection(t *testing.T) {
	srv := NewServer(mmio.NewBus(mmio.NewRegion(0, 0x100)))
	ts := transport.NewServer(transport.ServerConfig{
		Address:   "127.0.0.1:0",
		OnMessage: func(c *transport.Conn, msg []byte) { srv.HandleMessage(c, msg) },
	})
	require.NoError(t, ts.Start(context.Background()))

	rb, err := Connect(context.Background(), ts.Addr().String(), transport.ClientConfig{})
	require.NoError(t, err)

	require.NoError(t, ts.Stop())
	select {
	case <-rb.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not stop")
	}

	_, err = rb.Read(context.Background(), bus.Target{Name: "r", Width: 32}, 0xffffffff)
	assert.ErrorIs(t, err, bus.ErrBusClosed)
}
