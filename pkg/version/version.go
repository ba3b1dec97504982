// Package version provides remote bus protocol version parsing and
// negotiation.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library.
const Current = "1.0"

// ErrIncompatible is returned when two peers disagree on the major version.
var ErrIncompatible = errors.New("incompatible protocol version")

// ProtocolVersion is a parsed "major.minor" protocol version.
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (ProtocolVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return ProtocolVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ProtocolVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v.Major == other.Major
}

// Negotiate returns the version both peers speak: the shared major with
// the lower minor. The peer version comes from a Hello request.
func Negotiate(local, peer string) (ProtocolVersion, error) {
	lv, err := Parse(local)
	if err != nil {
		return ProtocolVersion{}, err
	}
	pv, err := Parse(peer)
	if err != nil {
		return ProtocolVersion{}, err
	}
	if !lv.Compatible(pv) {
		return ProtocolVersion{}, fmt.Errorf("%w: local %s, peer %s", ErrIncompatible, lv, pv)
	}
	if pv.Minor < lv.Minor {
		return pv, nil
	}
	return lv, nil
}
