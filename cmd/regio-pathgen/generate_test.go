package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/model"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		mapName, path, want string
	}{
		{"uart", "ctrl", "UARTCtrl"},
		{"uart", "ctrl.baud_div", "UARTCtrlBaudDiv"},
		{"uart", "status.errors.overrun", "UARTStatusErrorsOverrun"},
		{"uart", "irq.pending", "UARTIRQPending"},
		{"gpio", "mode.pin12", "GPIOModePin12"},
		{"timer", "ctrl.irq_en", "TimerCtrlIRQEn"},
		{"canonical", "reg0.field1", "CanonicalReg0Field1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := identifier(tt.mapName, tt.path); got != tt.want {
				t.Errorf("identifier(%q, %q) = %q, want %q", tt.mapName, tt.path, got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	g, err := examples.UART(nil)
	if err != nil {
		t.Fatalf("UART: %v", err)
	}
	m, err := collect(g)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	var paths []string
	for _, p := range m.Paths {
		paths = append(paths, p.Path)
	}
	want := []string{
		"ctrl", "ctrl.enable", "ctrl.loopback", "ctrl.parity", "ctrl.stop_bits", "ctrl.baud_div",
		"status", "status.tx_empty", "status.rx_ready",
		"status.errors", "status.errors.overrun", "status.errors.framing", "status.errors.parity",
		"tx", "rx", "irq", "irq.mask", "irq.pending",
	}
	if strings.Join(paths, " ") != strings.Join(want, " ") {
		t.Errorf("paths = %v\nwant %v", paths, want)
	}
}

func TestCollectRejectsCollisions(t *testing.T) {
	g, err := model.NewGroup("dev", nil,
		model.NewRegister("irq_en", 0, 32),
		model.NewRegister("irq", 4, 32, model.NewField("en", 0, 0)),
	)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if _, err := collect(g); err == nil || !strings.Contains(err.Error(), "DevIRQEn") {
		t.Errorf("collect error = %v, want collision on DevIRQEn", err)
	}
}

func TestGenerate(t *testing.T) {
	g, err := examples.Canonical(nil)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	m, err := collect(g)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	code, err := Generate(fileData{Package: "regs", Maps: []mapData{m}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"// Code generated by regio-pathgen. DO NOT EDIT.",
		"package regs",
		`CanonicalReg0Field1 = "reg0.field1"`,
		`case "canonical":`,
		"CanonicalReg1Field3,",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
}

func TestRunWritesFormattedFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen", "paths_gen.go")
	if err := run(out, "regs", []string{"canonical", "uart"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	code := string(data)
	if !strings.Contains(code, "\tCanonicalReg0       = \"reg0\"\n") {
		t.Errorf("constants not aligned:\n%s", code)
	}
	if !strings.Contains(code, "UARTStatusErrorsOverrun = \"status.errors.overrun\"") {
		t.Error("missing UART constants")
	}

	if err := run(out, "regs", []string{"spi"}); err == nil {
		t.Error("expected error for unknown map")
	}
}

func TestGeneratedFileUpToDate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "paths_gen.go")
	if err := run(out, "examples", examples.Names()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	committed, err := os.ReadFile(filepath.Join("..", "..", "pkg", "examples", "paths_gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(committed) {
		t.Error("pkg/examples/paths_gen.go is stale, run go generate ./pkg/examples")
	}
}
