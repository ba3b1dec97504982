package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.rlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	op := wire.OpRead
	status := wire.StatusSuccess
	return []log.Event{
		{
			Timestamp: ts, SessionID: "aaaaaaaa-1111", Direction: log.DirectionIn,
			Layer: log.LayerBus, Category: log.CategoryTransaction, Group: "uart",
			Bus: &log.BusEvent{Op: log.BusOpRead, Register: "status", Address: 0x1004, Width: 32, Mask: 0xff, Value: 0x3, Duration: 2 * time.Microsecond},
		},
		{
			Timestamp: ts.Add(time.Millisecond), SessionID: "aaaaaaaa-1111", Direction: log.DirectionOut,
			Layer: log.LayerBus, Category: log.CategoryTransaction, Group: "uart",
			Bus: &log.BusEvent{Op: log.BusOpWrite, Register: "ctrl", Address: 0x1000, Width: 32, Mask: 0x1, Value: 0x1, IdentityMask: 0xffe0},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond), SessionID: "bbbbbbbb-2222", Direction: log.DirectionOut,
			Layer: log.LayerRemote, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Type: log.MessageTypeRequest, MessageID: 4, Operation: &op, Register: "ctrl"},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond), SessionID: "bbbbbbbb-2222", Direction: log.DirectionIn,
			Layer: log.LayerRemote, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Type: log.MessageTypeResponse, MessageID: 4, Status: &status},
		},
		{
			Timestamp: ts.Add(4 * time.Millisecond), SessionID: "bbbbbbbb-2222",
			Layer: log.LayerTransport, Category: log.CategoryError,
			Error: &log.ErrorEventData{Layer: log.LayerTransport, Message: "connection reset"},
		},
	}
}

func TestRunView(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[aaaaaaaa] IN  BUS READ uart",
		"Register: status @0x1004 (32 bits)",
		"Identity: 0x0/0xffe0",
		"Operation: Read",
		"Status: SUCCESS (0)",
		"Error: connection reset",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	filter, err := FilterOptions{Layer: "remote"}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if strings.Contains(buf.String(), "BUS") {
		t.Errorf("bus events not filtered:\n%s", buf.String())
	}
	if got := strings.Count(buf.String(), "REMOTE"); got != 2 {
		t.Errorf("expected 2 remote events, got %d", got)
	}
}

func TestRunFilter(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "ctrl.rlog")

	n, err := RunFilter(path, out, log.Filter{Register: "ctrl"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events, got %d", n)
	}

	r, err := log.NewReader(out)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events in output, got %d", len(events))
	}
}

func TestCollect(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", stats.TotalEvents)
	}
	if len(stats.Sessions) != 2 {
		t.Errorf("Sessions = %d, want 2", len(stats.Sessions))
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	rs := stats.Registers["uart.status"]
	if rs == nil || rs.Reads != 1 || rs.Writes != 0 {
		t.Errorf("uart.status stats = %+v", rs)
	}
	if rs := stats.Registers["uart.ctrl"]; rs == nil || rs.Writes != 1 {
		t.Errorf("uart.ctrl stats = %+v", rs)
	}
}

func TestRunStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total Events: 5", "BUS:", "REMOTE:", "uart.ctrl", "Errors: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "trace.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "status,0x3") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFilterOptionsErrors(t *testing.T) {
	tests := []FilterOptions{
		{Layer: "wire"},
		{Direction: "up"},
		{Category: "control"},
		{TimeStart: "yesterday"},
	}
	for _, opts := range tests {
		if _, err := opts.Build(); err == nil {
			t.Errorf("Build(%+v): expected error", opts)
		}
	}
}
