package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates the TXT records announcing a daemon.
func EncodeTXT(info *BusInfo) TXTRecordMap {
	txt := TXTRecordMap{
		TXTKeyProtocol: info.Protocol,
		TXTKeyRegions:  strconv.Itoa(info.Regions),
	}
	if info.RequiresPSK {
		txt[TXTKeyAuth] = AuthPSK
	}
	if info.Map != "" {
		txt[TXTKeyMap] = info.Map
	}
	return txt
}

// DecodeTXT parses the TXT records of a daemon.
func DecodeTXT(txt TXTRecordMap) (*BusInfo, error) {
	info := &BusInfo{}

	var ok bool
	info.Protocol, ok = txt[TXTKeyProtocol]
	if !ok || info.Protocol == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyProtocol)
	}

	rStr, ok := txt[TXTKeyRegions]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyRegions)
	}
	n, err := strconv.Atoi(rStr)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: regions %q", ErrInvalidTXTRecord, rStr)
	}
	info.Regions = n

	info.RequiresPSK = txt[TXTKeyAuth] == AuthPSK
	info.Map = txt[TXTKeyMap]
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if found || k != "" {
			txt[k] = v
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
