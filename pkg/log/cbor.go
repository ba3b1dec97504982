package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Trace files are CBOR sequences of Event maps. Timestamps are RFC 3339
// strings with nanoseconds so that files stay readable with generic CBOR
// tools, and unknown keys are skipped so older tools read newer files.
var (
	traceEncMode = mustTraceEncMode()
	traceDecMode = mustTraceDecMode()
)

func mustTraceEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: trace encoder mode: %v", err))
	}
	return em
}

func mustTraceDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: trace decoder mode: %v", err))
	}
	return dm
}

// EncodeEvent encodes one event.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes one event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := traceDecMode.Unmarshal(data, &event)
	return event, err
}

func newTraceDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
