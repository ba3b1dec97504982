// Command regio-busd is a remote register bus daemon.
//
// It serves one or more memory windows, simulated or mapped from
// /dev/mem, to regio-shell and other remote bus clients. Connections
// may be required to prove a pre-shared key and the daemon can
// advertise itself via mDNS.
//
// Usage:
//
//	regio-busd [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-listen string     Listen address (default ":7483")
//	-psk string        Pre-shared key required from clients
//	-map string        Register map served, advertised to browsers
//	-advertise         Advertise the daemon via mDNS
//	-instance string   mDNS instance name (default "regbus-<hostname>")
//	-trace string      Trace file for bus and message events
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Regions are configured in the YAML file:
//
//	listen: ":7483"
//	map: uart
//	regions:
//	  - name: uart0
//	    base: 0x40001000
//	    size: 0x1000
//	    devmem: /dev/mem
//
// Without regions the daemon serves one simulated window holding all
// example maps.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

var config = defaultConfig()

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Listen, "listen", config.Listen, "Listen address")
	flag.StringVar(&config.PSK, "psk", "", "Pre-shared key required from clients")
	flag.StringVar(&config.Map, "map", "", "Register map served, advertised to browsers")
	flag.BoolVar(&config.Advertise, "advertise", false, "Advertise the daemon via mDNS")
	flag.StringVar(&config.Instance, "instance", "", "mDNS instance name")
	flag.StringVar(&config.Trace, "trace", "", "Trace file for bus and message events")
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
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("Register Bus Daemon")
	log.Println("===================")
	for _, r := range config.Regions {
		kind := "simulated"
		if r.DevMem != "" {
			kind = r.DevMem
		}
		log.Printf("Region %-10s 0x%08x +0x%x (%s)", r.Name, r.Base, r.Size, kind)
	}

	d, err := newDaemon(&config)
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	log.Printf("Listening on %s", d.addr())
	if config.PSK != "" {
		log.Println("Clients must authenticate with the pre-shared key")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v", sig)
	log.Println("Shutting down...")
	d.stop()
	log.Println("Goodbye!")
}

// mergeFlags overlays explicitly set flags onto the file configuration.
func mergeFlags(file, flags Config) Config {
	out := file
	out.ConfigFile = flags.ConfigFile
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			out.Listen = flags.Listen
		case "psk":
			out.PSK = flags.PSK
		case "map":
			out.Map = flags.Map
		case "advertise":
			out.Advertise = flags.Advertise
		case "instance":
			out.Instance = flags.Instance
		case "trace":
			out.Trace = flags.Trace
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
