package transport

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofDependsOnKeyAndNonce(t *testing.T) {
	nonce := bytes.Repeat([]byte{1}, NonceSize)
	other := bytes.Repeat([]byte{2}, NonceSize)

	a, err := Proof([]byte("secret"), nonce)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	again, err := Proof([]byte("secret"), nonce)
	require.NoError(t, err)
	assert.Equal(t, a, again)

	b, err := Proof([]byte("other"), nonce)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := Proof([]byte("secret"), other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func handshakePair(t *testing.T, serverKey, clientKey []byte) (serverErr, clientErr error) {
	t.Helper()
	sc, cc := net.Pipe()
	defer sc.Close()
	defer cc.Close()

	done := make(chan error, 1)
	go func() { done <- serverHandshake(NewFramer(sc), serverKey) }()
	clientErr = clientHandshake(NewFramer(cc), clientKey)
	serverErr = <-done
	return serverErr, clientErr
}

func TestHandshake(t *testing.T) {
	t.Run("matching keys", func(t *testing.T) {
		serverErr, clientErr := handshakePair(t, []byte("k"), []byte("k"))
		assert.NoError(t, serverErr)
		assert.NoError(t, clientErr)
	})

	t.Run("wrong key", func(t *testing.T) {
		serverErr, clientErr := handshakePair(t, []byte("k"), []byte("x"))
		assert.ErrorIs(t, serverErr, ErrAuthFailed)
		assert.ErrorIs(t, clientErr, ErrAuthFailed)
	})
}
