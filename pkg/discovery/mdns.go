package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// Advertiser announces a bus daemon.
type Advertiser interface {
	// Advertise starts advertising, replacing any previous announcement.
	Advertise(ctx context.Context, info *BusInfo) error

	// Update replaces the TXT records of the running announcement.
	Update(info *BusInfo) error

	// Stop withdraws the announcement.
	Stop()
}

// Browser finds bus daemons.
type Browser interface {
	// Browse reports daemons until ctx is done.
	Browse(ctx context.Context) (<-chan *BusService, error)

	// FindFirst returns the first daemon accepted by filter.
	FindFirst(ctx context.Context, filter FilterFunc) (*BusService, error)
}

// FilterFunc selects browse results.
type FilterFunc func(*BusService) bool

// FilterByMap accepts daemons serving the named register map.
func FilterByMap(name string) FilterFunc {
	return func(s *BusService) bool { return s.Map == name }
}

// FilterByInstance accepts the daemon with the given instance name.
func FilterByInstance(name string) FilterFunc {
	return func(s *BusService) bool { return s.InstanceName == name }
}

// MDNSAdvertiser implements Advertiser using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) *MDNSAdvertiser {
	return &MDNSAdvertiser{config: config}
}

// Advertise registers the service.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *BusInfo) error {
	if err := ValidateInstanceName(info.InstanceName); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.InstanceName,
		ServiceType,
		Domain,
		port,
		TXTRecordsToStrings(EncodeTXT(info)),
		interfaces(a.config.Interface),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register bus service: %w", err)
	}
	a.server = server
	return nil
}

// Update replaces the TXT records.
func (a *MDNSAdvertiser) Update(info *BusInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}
	a.server.SetText(TXTRecordsToStrings(EncodeTXT(info)))
	return nil
}

// Stop withdraws the service.
func (a *MDNSAdvertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// MDNSBrowser implements Browser using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return &MDNSBrowser{config: config}
}

// Browse searches for daemons. Services are aggregated by instance name:
// addresses from multiple interfaces are combined into a single entry,
// which is reported once.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *BusService, error) {
	out := make(chan *BusService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	var opts []zeroconf.ClientOption
	if ifaces := interfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	go func() {
		defer close(out)
		agg := newAggregator()
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc, isNew := agg.add(entryToService(entry))
				if !isNew {
					continue
				}
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}
			case entry, ok := <-removed:
				if !ok {
					continue
				}
				agg.remove(entry.Instance, entryAddresses(entry))
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindFirst browses until a daemon accepted by filter shows up. A nil
// filter accepts any daemon.
func (b *MDNSBrowser) FindFirst(ctx context.Context, filter FilterFunc) (*BusService, error) {
	if _, ok := ctx.Deadline(); !ok && b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	for svc := range found {
		if filter == nil || filter(svc) {
			return svc, nil
		}
	}
	return nil, ErrNotFound
}

func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// entryToService converts a zeroconf entry, returning nil for entries
// with unusable TXT records.
func entryToService(entry *zeroconf.ServiceEntry) *BusService {
	info, err := DecodeTXT(StringsToTXTRecords(entry.Text))
	if err != nil {
		return nil
	}
	info.InstanceName = entry.Instance
	info.Port = uint16(entry.Port)
	return &BusService{
		BusInfo:   *info,
		Host:      entry.HostName,
		Addresses: entryAddresses(entry),
	}
}

// aggregator merges entries of the same instance seen on several
// interfaces.
type aggregator struct {
	services map[string]*BusService
}

func newAggregator() *aggregator {
	return &aggregator{services: make(map[string]*BusService)}
}

// add records svc and reports whether it is a new instance.
func (a *aggregator) add(svc *BusService) (*BusService, bool) {
	if svc == nil {
		return nil, false
	}
	if existing, ok := a.services[svc.InstanceName]; ok {
		existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
		return existing, false
	}
	a.services[svc.InstanceName] = svc
	return svc, true
}

// remove drops addrs from the instance, forgetting it once none remain.
func (a *aggregator) remove(instance string, addrs []string) {
	existing, ok := a.services[instance]
	if !ok {
		return
	}
	existing.Addresses = removeAddresses(existing.Addresses, addrs)
	if len(existing.Addresses) == 0 {
		delete(a.services, instance)
	}
}

// mergeAddresses adds new addresses to existing, avoiding duplicates.
func mergeAddresses(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range added {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

func removeAddresses(addresses, gone []string) []string {
	drop := make(map[string]bool, len(gone))
	for _, a := range gone {
		drop[a] = true
	}
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !drop[addr] {
			result = append(result, addr)
		}
	}
	return result
}

var (
	_ Advertiser = (*MDNSAdvertiser)(nil)
	_ Browser    = (*MDNSBrowser)(nil)
)
