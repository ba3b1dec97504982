package log

import (
	"path/filepath"
	"testing"
	"time"
)

func writeTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "a", Direction: DirectionIn, Layer: LayerBus, Category: CategoryTransaction,
			Group: "uart", Bus: &BusEvent{Op: BusOpRead, Register: "ctrl"}},
		{Timestamp: base.Add(time.Second), SessionID: "a", Direction: DirectionOut, Layer: LayerBus, Category: CategoryTransaction,
			Group: "uart", Bus: &BusEvent{Op: BusOpWrite, Register: "data"}},
		{Timestamp: base.Add(2 * time.Second), SessionID: "b", Direction: DirectionOut, Layer: LayerRemote, Category: CategoryMessage,
			Group: "gpio", Message: &MessageEvent{Type: MessageTypeRequest, MessageID: 7, Register: "ctrl"}},
		{Timestamp: base.Add(3 * time.Second), SessionID: "b", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerTransport, Message: "boom"}},
	}
	path := writeTrace(t, events)

	layerBus := LayerBus
	dirOut := DirectionOut
	catErr := CategoryError
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"session", Filter{SessionID: "b"}, 2},
		{"layer", Filter{Layer: &layerBus}, 2},
		{"direction", Filter{Direction: &dirOut}, 2},
		{"category", Filter{Category: &catErr}, 1},
		{"group", Filter{Group: "uart"}, 2},
		{"register across layers", Filter{Register: "ctrl"}, 2},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{Group: "uart", Direction: &dirOut}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			got, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.rlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
