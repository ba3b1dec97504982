package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/regio-project/regio-go/pkg/wire"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterLogsBusEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		SessionID: "s-1",
		Direction: DirectionOut,
		Layer:     LayerBus,
		Category:  CategoryTransaction,
		Group:     "uart",
		Bus: &BusEvent{
			Op:            BusOpWrite,
			Register:      "ctrl",
			Address:       0x1000,
			Mask:          0x1f,
			IdentityMask:  0xe0,
			IdentityValue: 0,
			Value:         0x0b,
		},
	})

	want := map[string]any{
		"session":  "s-1",
		"layer":    "BUS",
		"group":    "uart",
		"op":       "WRITE",
		"register": "ctrl",
		"address":  "0x1000",
		"mask":     "0x1f",
		"id_mask":  "0xe0",
		"value":    "0xb",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogAdapterReadOmitsIdentity(t *testing.T) {
	entry := logJSON(t, Event{
		Layer: LayerBus,
		Bus:   &BusEvent{Op: BusOpRead, Register: "status", Mask: 0xff},
	})
	if _, ok := entry["id_mask"]; ok {
		t.Error("read events must not carry id_mask")
	}
}

func TestSlogAdapterLogsMessageEvent(t *testing.T) {
	op := wire.OpWrite
	status := wire.StatusBusError
	entry := logJSON(t, Event{
		Layer:    LayerRemote,
		Category: CategoryMessage,
		Message: &MessageEvent{
			Type:      MessageTypeResponse,
			MessageID: 42,
			Operation: &op,
			Register:  "ctrl",
			Status:    &status,
		},
	})

	if entry["msg_id"] != float64(42) {
		t.Errorf("msg_id: got %v, want 42", entry["msg_id"])
	}
	if entry["operation"] != op.String() {
		t.Errorf("operation: got %v, want %s", entry["operation"], op)
	}
	if entry["status"] != status.String() {
		t.Errorf("status: got %v, want %s", entry["status"], status)
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	var a, b recorder
	m := NewMultiLogger(&a, nil, &b)
	if m.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", m.Len())
	}

	m.Log(Event{SessionID: "x"})
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("expected one event per logger, got %d and %d", len(a.events), len(b.events))
	}
}

type recorder struct{ events []Event }

func (r *recorder) Log(e Event) { r.events = append(r.events, e) }
