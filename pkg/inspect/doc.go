// Package inspect formats register trees and values for display and parses
// the assignments typed into the interactive shell.
//
// The inspect package offers:
//   - Tree dumps of a register group (FormatTree)
//   - Hex, binary and decimal value formatting sized to the field width
//   - Register dumps with a per-field breakdown and enum names
//   - Assignment parsing, e.g. "ctrl.baud_div=0x1a" or "ctrl.parity=EVEN"
package inspect
