// Package examples provides reference register maps.
//
// The maps describe small peripherals laid out in one address window and
// together use every write function, read-only and write-only registers,
// subfields, enumerated fields and computed addresses:
//   - Canonical: the three-field register used throughout the tests
//   - UART: a serial port with write-one-to-clear interrupt flags
//   - GPIO: a port with set/clear registers and per-pin modes
//   - Timer: a 64-bit counter with compare channels
//
// The regio-shell and regio-busd commands serve these maps over a
// simulated memory region. Path constants such as UARTCtrlBaudDiv are
// generated by regio-pathgen.
package examples

//go:generate go run ../../cmd/regio-pathgen -output paths_gen.go
