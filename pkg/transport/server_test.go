package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startEcho starts a server on a random local port that echoes every
// message back.
func startEcho(t *testing.T, psk []byte, errs chan<- error) *Server {
	t.Helper()
	s := NewServer(ServerConfig{
		Address: "127.0.0.1:0",
		PSK:     psk,
		OnMessage: func(c *Conn, msg []byte) {
			_ = c.Send(msg)
		},
		OnError: func(_ *Conn, err error) {
			if errs != nil {
				select {
				case errs <- err:
				default:
				}
			}
		},
	})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestServerEcho(t *testing.T) {
	s := startEcho(t, nil, nil)

	conn, err := Dial(context.Background(), s.Addr().String(), ClientConfig{})
	require.NoError(t, err)
	defer conn.Close()
	assert.NotEmpty(t, conn.ID())

	require.NoError(t, conn.Send([]byte("ping")))
	got, err := conn.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), got)

	assert.Eventually(t, func() bool { return s.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServerConcurrentSenders(t *testing.T) {
	s := startEcho(t, nil, nil)
	conn, err := Dial(context.Background(), s.Addr().String(), ClientConfig{})
	require.NoError(t, err)
	defer conn.Close()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, conn.Send([]byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	seen := make(map[byte]bool)
	for i := 0; i < n; i++ {
		msg, err := conn.Receive(2 * time.Second)
		require.NoError(t, err)
		require.Len(t, msg, 1)
		seen[msg[0]] = true
	}
	assert.Len(t, seen, n)
}

func TestServerAuth(t *testing.T) {
	psk := []byte("shared secret")

	t.Run("accepted", func(t *testing.T) {
		s := startEcho(t, psk, nil)
		conn, err := Dial(context.Background(), s.Addr().String(), ClientConfig{PSK: psk})
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.Send([]byte("x")))
		got, err := conn.Receive(2 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), got)
	})

	t.Run("rejected", func(t *testing.T) {
		errs := make(chan error, 1)
		s := startEcho(t, psk, errs)
		_, err := Dial(context.Background(), s.Addr().String(), ClientConfig{PSK: []byte("wrong")})
		assert.ErrorIs(t, err, ErrAuthFailed)

		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrAuthFailed)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not report the failed handshake")
		}
		assert.Equal(t, 0, s.ConnectionCount())
	})
}

func TestServerStopClosesConnections(t *testing.T) {
	disconnected := make(chan struct{})
	s := NewServer(ServerConfig{
		Address:      "127.0.0.1:0",
		OnDisconnect: func(*Conn) { close(disconnected) },
	})
	require.NoError(t, s.Start(context.Background()))

	conn, err := Dial(context.Background(), s.Addr().String(), ClientConfig{})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	select {
	case <-disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnect not called")
	}
	assert.Equal(t, 0, s.ConnectionCount())

	_, err = conn.Receive(time.Second)
	assert.Error(t, err)
	assert.NoError(t, s.Stop(), "second stop is a no-op")
}

func TestConnClosed(t *testing.T) {
	s := startEcho(t, nil, nil)
	conn, err := Dial(context.Background(), s.Addr().String(), ClientConfig{})
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	assert.ErrorIs(t, conn.Send([]byte{1}), ErrConnectionClosed)
	_, err = conn.Receive(0)
	assert.ErrorIs(t, err, ErrConnectionClosed)
	<-conn.Done()
}
