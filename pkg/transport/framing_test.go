package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regio-project/regio-go/pkg/log"
)

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureLogger) Events() []log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]log.Event(nil), c.events...)
}

func TestFramerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := NewFramer(&buf)

	msgs := [][]byte{{0x01}, []byte("hello"), bytes.Repeat([]byte{0xab}, 1000)}
	for _, m := range msgs {
		require.NoError(t, f.WriteFrame(m))
	}
	assert.Equal(t, FrameSize(1)+FrameSize(5)+FrameSize(1000), buf.Len())

	for _, want := range msgs {
		got, err := f.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := f.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFramerPrefixIsBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFramer(&buf).WriteFrame([]byte{1, 2, 3}))
	assert.Equal(t, []byte{0, 0, 0, 3, 1, 2, 3}, buf.Bytes())
}

func TestFramerErrors(t *testing.T) {
	t.Run("empty write", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, NewFramer(&buf).WriteFrame(nil), ErrMessageEmpty)
	})

	t.Run("oversized write", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFramerWithMaxSize(&buf, 4)
		assert.ErrorIs(t, f.WriteFrame([]byte("12345")), ErrMessageTooLarge)
		assert.Zero(t, buf.Len())
	})

	t.Run("oversized read", func(t *testing.T) {
		var buf bytes.Buffer
		_ = binary.Write(&buf, binary.BigEndian, uint32(DefaultMaxMessageSize+1))
		_, err := NewFramer(&buf).ReadFrame()
		assert.ErrorIs(t, err, ErrMessageTooLarge)
	})

	t.Run("zero length", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
		_, err := NewFramer(buf).ReadFrame()
		assert.ErrorIs(t, err, ErrMessageEmpty)
	})

	t.Run("truncated prefix", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{0, 0})
		_, err := NewFramer(buf).ReadFrame()
		assert.ErrorIs(t, err, ErrFrameTruncated)
	})

	t.Run("truncated payload", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{0, 0, 0, 4, 1, 2})
		_, err := NewFramer(buf).ReadFrame()
		assert.ErrorIs(t, err, ErrFrameTruncated)
	})
}

type failingWriter struct{ bytes.Buffer }

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestFramerWriteFailure(t *testing.T) {
	err := NewFramer(&failingWriter{}).WriteFrame([]byte{1})
	assert.ErrorContains(t, err, "broken pipe")
}

func TestFramerLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	logger := &captureLogger{}
	f := NewFramer(&buf)
	f.SetLogger(logger, "session-1")

	big := bytes.Repeat([]byte{0x55}, MaxLogFrameDataSize+10)
	require.NoError(t, f.WriteFrame(big))
	_, err := f.ReadFrame()
	require.NoError(t, err)

	events := logger.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.DirectionOut, events[0].Direction)
	assert.Equal(t, log.DirectionIn, events[1].Direction)
	for _, e := range events {
		assert.Equal(t, "session-1", e.SessionID)
		assert.Equal(t, log.LayerTransport, e.Layer)
		require.NotNil(t, e.Frame)
		assert.Equal(t, FrameSize(len(big)), e.Frame.Size)
		assert.Len(t, e.Frame.Data, MaxLogFrameDataSize)
		assert.True(t, e.Frame.Truncated)
	}
}
