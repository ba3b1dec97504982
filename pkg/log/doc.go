// Package log provides structured tracing of register traffic.
//
// Trace events are captured at three layers: individual bus transactions
// (BusEvent), raw frames of the remote bus transport (FrameEvent) and
// decoded remote requests and responses (MessageEvent). Tracing is separate
// from operational logging: it yields a complete machine-readable record of
// every register access for post-mortem analysis.
//
// # Basic Usage
//
//	// For bring-up: print transactions via slog
//	b = bus.Traced(b, log.NewSlogAdapter(slog.Default()), "uart")
//
//	// For capture: write a binary trace file
//	fl, _ := log.NewFileLogger("/tmp/uart.rlog")
//	b = bus.Traced(b, fl, "uart")
//
//	// Both
//	b = bus.Traced(b, log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl), "uart")
//
// # File Format
//
// Trace files are CBOR sequences with the .rlog extension. The regio-log
// tool views, filters and summarizes them.
package log
