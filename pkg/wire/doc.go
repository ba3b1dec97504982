// Package wire defines the CBOR wire format of the remote register bus.
//
// A client sends requests and the bus daemon answers each with a response
// carrying the same message ID. Messages are CBOR (RFC 8949) maps with
// integer keys and are length-prefixed by the transport.
//
// # Operations
//
//   - Hello: version negotiation, must be the first request
//   - Describe: lists the memory regions the daemon serves
//   - Read: reads one register
//   - Write: writes one register with its identity mask and value, so the
//     daemon can avoid or perform the read-modify-write
//
// # Zero values
//
// Zero-valued fields are omitted from the encoding. A missing key decodes
// as zero.
package wire
