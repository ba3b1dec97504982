// Package discovery advertises and finds bus daemons on the local network
// using DNS-SD over mDNS.
//
// A daemon registers one "_regbus._tcp" service instance named after the
// host. Its TXT records carry the protocol version, the number of served
// regions and optionally whether a pre-shared key is required:
//
//	proto=1.0
//	regions=3
//	auth=psk
//
// Clients browse for the service type; entries seen on several interfaces
// are aggregated into one BusService with all addresses.
package discovery
