package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXTRoundTrip(t *testing.T) {
	info := &BusInfo{Protocol: "1.0", Regions: 3, RequiresPSK: true, Map: "uart"}
	strs := TXTRecordsToStrings(EncodeTXT(info))
	assert.Equal(t, []string{"auth=psk", "map=uart", "proto=1.0", "regions=3"}, strs)

	got, err := DecodeTXT(StringsToTXTRecords(strs))
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestDecodeTXTErrors(t *testing.T) {
	tests := []struct {
		name string
		txt  TXTRecordMap
		want error
	}{
		{"no proto", TXTRecordMap{TXTKeyRegions: "1"}, ErrMissingRequired},
		{"no regions", TXTRecordMap{TXTKeyProtocol: "1.0"}, ErrMissingRequired},
		{"bad regions", TXTRecordMap{TXTKeyProtocol: "1.0", TXTKeyRegions: "x"}, ErrInvalidTXTRecord},
		{"negative regions", TXTRecordMap{TXTKeyProtocol: "1.0", TXTKeyRegions: "-1"}, ErrInvalidTXTRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTXT(tt.txt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"a=1", "flag", "b=x=y", ""})
	assert.Equal(t, TXTRecordMap{"a": "1", "flag": "", "b": "x=y"}, txt)
}

func TestValidateInstanceName(t *testing.T) {
	assert.NoError(t, ValidateInstanceName("busd-lab1"))
	assert.Error(t, ValidateInstanceName(""))
	long := make([]byte, MaxInstanceNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateInstanceName(string(long)), ErrInstanceNameTooLong)
}

func entry(instance string, txt []string, ips ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{}
	e.Instance = instance
	e.HostName = instance + ".local."
	e.Port = 7483
	e.Text = txt
	for _, ip := range ips {
		e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP(ip))
	}
	return e
}

func TestEntryToService(t *testing.T) {
	svc := entryToService(entry("lab", []string{"proto=1.0", "regions=2"}, "10.0.0.2"))
	require.NotNil(t, svc)
	assert.Equal(t, "lab", svc.InstanceName)
	assert.Equal(t, 2, svc.Regions)

	addr, ok := svc.Dial()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2:7483", addr)

	assert.Nil(t, entryToService(entry("junk", []string{"foo=bar"}, "10.0.0.3")))
}

func TestAggregator(t *testing.T) {
	txt := []string{"proto=1.0", "regions=1"}
	agg := newAggregator()

	svc, isNew := agg.add(entryToService(entry("lab", txt, "10.0.0.2")))
	require.True(t, isNew)

	_, isNew = agg.add(entryToService(entry("lab", txt, "192.168.1.2", "10.0.0.2")))
	assert.False(t, isNew)
	assert.Equal(t, []string{"10.0.0.2", "192.168.1.2"}, svc.Addresses)

	agg.remove("lab", []string{"10.0.0.2"})
	assert.Equal(t, []string{"192.168.1.2"}, svc.Addresses)

	agg.remove("lab", []string{"192.168.1.2"})
	assert.Empty(t, agg.services)

	_, isNew = agg.add(nil)
	assert.False(t, isNew)
}

func TestFilters(t *testing.T) {
	svc := &BusService{BusInfo: BusInfo{InstanceName: "lab", Map: "gpio"}}
	assert.True(t, FilterByMap("gpio")(svc))
	assert.False(t, FilterByMap("uart")(svc))
	assert.True(t, FilterByInstance("lab")(svc))
}

func TestUpdateWithoutAdvertise(t *testing.T) {
	a := NewMDNSAdvertiser(AdvertiserConfig{})
	assert.ErrorIs(t, a.Update(&BusInfo{Protocol: "1.0"}), ErrNotAdvertising)
	a.Stop()
}
