package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/interaction"
	rlog "github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/path"
	"github.com/regio-project/regio-go/pkg/regio"
	"github.com/regio-project/regio-go/pkg/transport"
)

func startDaemon(t *testing.T, cfg Config) *daemon {
	t.Helper()
	applyDefaults(&cfg)
	require.NoError(t, validateConfig(&cfg))

	d, err := newDaemon(&cfg)
	require.NoError(t, err)
	require.NoError(t, d.start(context.Background()))
	return d
}

func TestDaemonServesSimulatedWindow(t *testing.T) {
	trace := filepath.Join(t.TempDir(), "busd.cbor")
	d := startDaemon(t, Config{
		Listen:   "127.0.0.1:0",
		PSK:      "secret",
		Map:      "uart",
		Trace:    trace,
		LogLevel: "info",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rb, err := interaction.Connect(ctx, d.addr(), transport.ClientConfig{PSK: []byte("secret")})
	require.NoError(t, err)

	regions, err := rb.Describe(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "window", regions[0].Name)
	assert.Equal(t, uint64(examples.WindowSize), regions[0].Size)

	g, err := examples.UART(rb)
	require.NoError(t, err)
	require.NoError(t, regio.BlockingWrite(ctx, g, path.V("ctrl.baud_div", 0x42)))

	r, err := regio.BlockingRead(ctx, g, "ctrl.baud_div")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x42), r.MustGet("ctrl.baud_div"))

	require.NoError(t, rb.Close())
	d.stop()

	reader, err := rlog.NewReader(trace)
	require.NoError(t, err)
	defer reader.Close()
	events, err := reader.ReadAll()
	require.NoError(t, err)

	var busEvents int
	for _, e := range events {
		if e.Bus != nil {
			busEvents++
		}
	}
	assert.GreaterOrEqual(t, busEvents, 2)
}

func TestDaemonRejectsWrongPSK(t *testing.T) {
	d := startDaemon(t, Config{Listen: "127.0.0.1:0", PSK: "secret", LogLevel: "info"})
	defer d.stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := interaction.Connect(ctx, d.addr(), transport.ClientConfig{PSK: []byte("guess")})
	assert.Error(t, err)
}

func TestOpenMemoryOverlap(t *testing.T) {
	_, _, err := openMemory([]RegionConfig{
		{Name: "a", Base: 0x1000, Size: 0x1000},
		{Name: "b", Base: 0x1800, Size: 0x1000},
	})
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "busd.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
listen: ":9000"
psk: secret
map: gpio
advertise: true
instance: lab-bench
regions:
  - name: gpio
    base: 0x2000
    size: 0x1000
  - name: soc
    base: 0x40000000
    size: 0x10000
    devmem: /dev/mem
`), 0o644))

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(file, &cfg))
	applyDefaults(&cfg)
	require.NoError(t, validateConfig(&cfg))

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "lab-bench", cfg.Instance)
	assert.True(t, cfg.Advertise)
	require.Len(t, cfg.Regions, 2)
	assert.Equal(t, uint64(0x2000), cfg.Regions[0].Base)
	assert.Equal(t, 0x10000, cfg.Regions[1].Size)
	assert.Equal(t, "/dev/mem", cfg.Regions[1].DevMem)
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultConfig()
	applyDefaults(&cfg)
	require.Len(t, cfg.Regions, 1)
	assert.Equal(t, examples.WindowSize, cfg.Regions[0].Size)
	assert.NotEmpty(t, cfg.Instance)
	assert.LessOrEqual(t, len(cfg.Instance), 63)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"listen", func(c *Config) { c.Listen = "7483" }, "invalid listen address"},
		{"port", func(c *Config) { c.Listen = ":http-alt" }, "invalid listen port"},
		{"map", func(c *Config) { c.Map = "spi" }, "unknown map"},
		{"no regions", func(c *Config) { c.Regions = nil }, "no regions"},
		{"unnamed region", func(c *Config) { c.Regions[0].Name = "" }, "missing name"},
		{"duplicate region", func(c *Config) { c.Regions = append(c.Regions, c.Regions[0]) }, "duplicate name"},
		{"empty region", func(c *Config) { c.Regions[0].Size = 0 }, "size must be positive"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			applyDefaults(&cfg)
			tt.modify(&cfg)
			err := validateConfig(&cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
