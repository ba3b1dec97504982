package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Service constants.
const (
	ServiceType = "_regbus._tcp"
	Domain      = "local."

	// DefaultPort matches the transport's default listen port.
	DefaultPort = 7483

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyProtocol = "proto"
	TXTKeyRegions  = "regions"
	TXTKeyAuth     = "auth"
	TXTKeyMap      = "map"
)

// AuthPSK is the TXT value announcing pre-shared-key authentication.
const AuthPSK = "psk"

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record")
	ErrInstanceNameTooLong = errors.New("instance name too long")
	ErrNotAdvertising      = errors.New("not advertising")
	ErrNotFound            = errors.New("service not found")
)

// BusInfo is what a daemon announces about itself.
type BusInfo struct {
	InstanceName string
	Port         uint16
	Protocol     string
	Regions      int

	// RequiresPSK is set when connections must authenticate.
	RequiresPSK bool

	// Map optionally names the register map the daemon serves.
	Map string
}

// BusService is a daemon found on the network.
type BusService struct {
	BusInfo
	Host      string
	Addresses []string
}

// Dial returns a "host:port" address for the first known address.
func (s *BusService) Dial() (string, bool) {
	if len(s.Addresses) == 0 {
		return "", false
	}
	return net.JoinHostPort(s.Addresses[0], strconv.Itoa(int(s.Port))), true
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface restricts advertising to one network interface.
	// Empty means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Zero uses the library default.
	TTL time.Duration
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface.
	Interface string

	// Timeout bounds FindFirst when ctx has no deadline.
	Timeout time.Duration
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{Timeout: 5 * time.Second}
}
