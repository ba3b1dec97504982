package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/discovery"
	"github.com/regio-project/regio-go/pkg/interaction"
	rlog "github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/mmio"
	"github.com/regio-project/regio-go/pkg/transport"
	"github.com/regio-project/regio-go/pkg/version"
	"github.com/regio-project/regio-go/pkg/wire"
)

// daemon serves the configured memory windows to remote bus clients.
type daemon struct {
	cfg     *Config
	memory  *mmio.Windows
	regions []wire.RegionInfo
	closers []io.Closer

	handler   *interaction.Server
	server    *transport.Server
	adv       *discovery.MDNSAdvertiser
	traceFile *rlog.FileLogger
}

// openMemory maps every configured region.
func openMemory(regions []RegionConfig) (*mmio.Windows, []io.Closer, error) {
	var windows []mmio.Window
	var closers []io.Closer
	fail := func(err error) (*mmio.Windows, []io.Closer, error) {
		closeAll(closers)
		return nil, nil, err
	}

	for _, rc := range regions {
		var mem mmio.Memory
		if rc.DevMem != "" {
			dm, err := mmio.OpenDevMem(rc.DevMem, rc.Base, rc.Size)
			if err != nil {
				return fail(fmt.Errorf("region %s: %w", rc.Name, err))
			}
			closers = append(closers, dm)
			mem = dm
		} else {
			mem = mmio.NewRegion(rc.Base, rc.Size)
		}
		windows = append(windows, mmio.Window{Name: rc.Name, Base: rc.Base, Size: rc.Size, Mem: mem})
	}

	ws, err := mmio.NewWindows(windows...)
	if err != nil {
		return fail(err)
	}
	return ws, closers, nil
}

func newDaemon(cfg *Config) (*daemon, error) {
	memory, closers, err := openMemory(cfg.Regions)
	if err != nil {
		return nil, err
	}
	d := &daemon{cfg: cfg, memory: memory, closers: closers}

	for _, w := range memory.Windows() {
		d.regions = append(d.regions, wire.RegionInfo{Name: w.Name, Base: w.Base, Size: uint64(w.Size)})
	}

	var sinks []rlog.Logger
	if cfg.LogLevel == "debug" {
		sinks = append(sinks, rlog.NewSlogAdapter(slog.Default()))
	}
	if cfg.Trace != "" {
		fl, err := rlog.NewFileLogger(cfg.Trace)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("opening trace: %w", err)
		}
		d.traceFile = fl
		sinks = append(sinks, fl)
	}
	var logger rlog.Logger = rlog.NoopLogger{}
	if len(sinks) > 0 {
		logger = rlog.NewMultiLogger(sinks...)
	}

	var opts []mmio.Option
	if cfg.Unaligned {
		opts = append(opts, mmio.WithUnaligned())
	}
	backing := bus.Traced(mmio.NewBus(memory, opts...), logger, cfg.Map)

	d.handler = interaction.NewServer(backing, d.regions...)
	d.handler.SetLogger(logger)

	var psk []byte
	if cfg.PSK != "" {
		psk = []byte(cfg.PSK)
	}
	d.server = transport.NewServer(transport.ServerConfig{
		Address: cfg.Listen,
		PSK:     psk,
		Logger:  logger,
		OnConnect: func(c *transport.Conn) {
			log.Printf("[CONN] %s connected (%s)", c.RemoteAddr(), c.ID())
		},
		OnDisconnect: func(c *transport.Conn) {
			d.handler.Forget(c)
			log.Printf("[CONN] %s disconnected", c.RemoteAddr())
		},
		OnMessage: func(c *transport.Conn, msg []byte) {
			d.handler.HandleMessage(c, msg)
		},
		OnError: func(c *transport.Conn, err error) {
			if c == nil {
				log.Printf("[ERROR] listener: %v", err)
				return
			}
			log.Printf("[ERROR] %s: %v", c.RemoteAddr(), err)
		},
	})
	return d, nil
}

// start listens and, if configured, advertises the daemon.
func (d *daemon) start(ctx context.Context) error {
	if err := d.server.Start(ctx); err != nil {
		return err
	}
	if !d.cfg.Advertise {
		return nil
	}

	port := uint16(d.server.Addr().(*net.TCPAddr).Port)
	d.adv = discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{Interface: d.cfg.Interface})
	info := &discovery.BusInfo{
		InstanceName: d.cfg.Instance,
		Port:         port,
		Protocol:     version.Current,
		Regions:      len(d.regions),
		RequiresPSK:  d.cfg.PSK != "",
		Map:          d.cfg.Map,
	}
	if err := d.adv.Advertise(ctx, info); err != nil {
		_ = d.server.Stop()
		return fmt.Errorf("advertising: %w", err)
	}
	log.Printf("Advertising %s as %s", discovery.ServiceType, d.cfg.Instance)
	return nil
}

// addr returns the listen address once started.
func (d *daemon) addr() string { return d.server.Addr().String() }

func (d *daemon) stop() {
	if d.adv != nil {
		d.adv.Stop()
	}
	if err := d.server.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
	if d.traceFile != nil {
		log.Printf("Wrote %d trace events", d.traceFile.Count())
		if err := d.traceFile.Close(); err != nil {
			log.Printf("Error closing trace: %v", err)
		}
	}
	closeAll(d.closers)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("Error closing memory: %v", err)
		}
	}
}
