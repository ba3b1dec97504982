// Command regio-shell is an interactive register shell.
//
// It binds one of the example register maps to a bus and accepts
// commands to inspect, read and write its registers. The bus is either a
// simulated memory window in the shell process or a remote bus daemon.
//
// Usage:
//
//	regio-shell [flags]
//
// Flags:
//
//	-map string        Register map: canonical, uart, gpio, timer (default "uart")
//	-config string     Configuration file path (YAML)
//	-connect string    Remote bus daemon address (host:port)
//	-discover          Find a remote bus daemon serving the map via mDNS
//	-instance string   With -discover, only accept this instance name
//	-psk string        Pre-shared key for the remote bus daemon
//	-trace string      Trace bus transactions to this file from the start
//	-radix string      Value display format: hex, bin, dec (default "hex")
//	-timeout duration  Per-command timeout (default 5s)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Explore the UART map on a simulated window
//	regio-shell -map uart
//
//	# Use a remote daemon
//	regio-shell -map gpio -connect 10.0.0.2:7483 -psk secret
//
//	# Find a daemon on the local network
//	regio-shell -map timer -discover
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/regio-project/regio-go/cmd/regio-shell/interactive"
	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/discovery"
	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/inspect"
	"github.com/regio-project/regio-go/pkg/interaction"
	rlog "github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/mmio"
	"github.com/regio-project/regio-go/pkg/transport"
)

var config = defaultConfig()

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Map, "map", config.Map, "Register map: canonical, uart, gpio, timer")
	flag.StringVar(&config.Connect, "connect", "", "Remote bus daemon address (host:port)")
	flag.BoolVar(&config.Discover, "discover", false, "Find a remote bus daemon serving the map via mDNS")
	flag.StringVar(&config.Instance, "instance", "", "With -discover, only accept this instance name")
	flag.StringVar(&config.PSK, "psk", "", "Pre-shared key for the remote bus daemon")
	flag.StringVar(&config.Trace, "trace", "", "Trace bus transactions to this file from the start")
	flag.StringVar(&config.Radix, "radix", config.Radix, "Value display format: hex, bin, dec")
	flag.DurationVar(&config.Timeout, "timeout", config.Timeout, "Per-command timeout")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		fileCfg := defaultConfig()
		if err := loadConfigFile(config.ConfigFile, &fileCfg); err != nil {
			log.Fatalf("%v", err)
		}
		config = mergeFlags(fileCfg, config)
	}

	setupLogging(config.LogLevel)

	if err := validateConfig(&config); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	tracer := &rlog.SwitchLogger{}
	raw, remote, err := openBus(ctx, tracer)
	if err != nil {
		log.Fatalf("Failed to open bus: %v", err)
	}
	if remote != nil {
		defer remote.Close()
		go func() {
			select {
			case <-remote.Done():
				log.Println("Remote bus connection closed")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	g, err := examples.Build(config.Map, bus.Traced(raw, tracer, config.Map))
	if err != nil {
		log.Fatalf("Failed to build map %s: %v", config.Map, err)
	}

	shell := interactive.New(g, tracer)
	shell.SetTimeout(config.Timeout)
	if remote != nil {
		shell.SetDescriber(remote)
	}
	shell.Formatter().Radix, _ = inspect.ParseRadix(config.Radix)

	if config.Trace != "" {
		shell.Execute(ctx, "trace on "+config.Trace)
	}

	if err := shell.Run(ctx, cancel); err != nil {
		log.Fatalf("Shell error: %v", err)
	}
}

// openBus returns the bus to bind the map to. For remote daemons the
// RemoteBus is returned as well.
func openBus(ctx context.Context, tracer rlog.Logger) (bus.Bus, *interaction.RemoteBus, error) {
	addr := config.Connect
	if config.Discover {
		svc, err := discover(ctx)
		if err != nil {
			return nil, nil, err
		}
		var ok bool
		if addr, ok = svc.Dial(); !ok {
			return nil, nil, fmt.Errorf("instance %s has no address", svc.InstanceName)
		}
		log.Printf("Discovered %s at %s", svc.InstanceName, addr)
	}

	if addr == "" {
		log.Printf("Using simulated window 0x%x bytes", examples.WindowSize)
		region := mmio.NewRegion(0, examples.WindowSize)
		return mmio.NewBus(region), nil, nil
	}

	var psk []byte
	if config.PSK != "" {
		psk = []byte(config.PSK)
	}
	rb, err := interaction.Connect(ctx, addr, transport.ClientConfig{
		PSK:    psk,
		Logger: tracer,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Connected to %s (protocol %s)", addr, rb.Version())
	return rb, rb, nil
}

func discover(ctx context.Context) (*discovery.BusService, error) {
	bcfg := discovery.DefaultBrowserConfig()
	ctx, cancel := context.WithTimeout(ctx, bcfg.Timeout)
	defer cancel()

	filter := discovery.FilterByMap(config.Map)
	if config.Instance != "" {
		byMap, byName := filter, discovery.FilterByInstance(config.Instance)
		filter = func(s *discovery.BusService) bool { return byMap(s) && byName(s) }
	}

	log.Printf("Browsing for %s daemons serving %q...", discovery.ServiceType, config.Map)
	return discovery.NewMDNSBrowser(bcfg).FindFirst(ctx, filter)
}

// mergeFlags overlays explicitly set flags onto the file configuration.
func mergeFlags(file, flags Config) Config {
	out := file
	out.ConfigFile = flags.ConfigFile
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "map":
			out.Map = flags.Map
		case "connect":
			out.Connect = flags.Connect
		case "discover":
			out.Discover = flags.Discover
		case "instance":
			out.Instance = flags.Instance
		case "psk":
			out.PSK = flags.PSK
		case "trace":
			out.Trace = flags.Trace
		case "radix":
			out.Radix = flags.Radix
		case "timeout":
			out.Timeout = flags.Timeout
		case "log-level":
			out.LogLevel = flags.LogLevel
		}
	})
	return out
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}
