package bustest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/model"
)

var target = bus.Target{Name: "reg", Address: 0x10, Width: 16}

func TestWriteMergesMasks(t *testing.T) {
	b := New()
	b.SetValue(0x10, 0xffff)

	err := b.Write(context.Background(), target, bus.Write{
		Mask: 0x000f, IdentityMask: 0x00f0, IdentityValue: 0x0050, Value: 0x0003,
	})
	require.NoError(t, err)

	v, ok := b.Value(0x10)
	require.True(t, ok)
	assert.Equal(t, uint64(0xff53), v)
	assert.Equal(t, 1, b.Writes("reg"))
	assert.Equal(t, 0, b.Reads("reg"))
}

func TestXPolicy(t *testing.T) {
	tests := []struct {
		name    string
		x       XPolicy
		want    uint64
		wantErr error
	}{
		{"zero", XZero, 0, nil},
		{"ones", XOnes, 0xffff, nil},
		{"error", XError, 0, ErrUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithXPolicy(tt.x))
			v, err := b.Read(context.Background(), target, 0xffff)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestHooks(t *testing.T) {
	b := New()
	var written []uint64
	b.SetWriteFunc(0x10, func(_, v uint64) { written = append(written, v) })
	b.SetReadFunc(0x10, func(uint64) uint64 { return 0xa5 })

	require.NoError(t, b.Write(context.Background(), target, bus.Write{Mask: 0xff, Value: 0x12}))
	v, err := b.Read(context.Background(), target, 0xff)
	require.NoError(t, err)

	assert.Equal(t, uint64(0xa5), v)
	// The merge starts from the hooked read value.
	assert.Equal(t, []uint64{0x12}, written)
}

func TestSetGetByPath(t *testing.T) {
	g := model.MustGroup("g", nil,
		model.NewRegister("ctrl", 0x20, 8, model.NewField("en", 0, 0)),
	)
	b := New()

	require.NoError(t, b.Set(g, "ctrl.en", 0x1ff))
	v, ok, err := b.Get(g, "ctrl")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(0xff), v)

	_, _, err = b.Get(g, "missing")
	assert.Error(t, err)
}

func TestLatencyMakesBusAsynchronous(t *testing.T) {
	assert.True(t, New().Synchronous())
	assert.False(t, New(WithBlocking()).Synchronous())
	assert.False(t, bus.IsSynchronous(New(WithLatency(1))))
}

func TestResetAndClearLog(t *testing.T) {
	b := New()
	b.SetValue(0x10, 1)
	_, _ = b.Read(context.Background(), target, 1)

	b.ClearLog()
	assert.Empty(t, b.Transactions())
	_, ok := b.Value(0x10)
	assert.True(t, ok)

	b.Reset()
	_, ok = b.Value(0x10)
	assert.False(t, ok)
}
