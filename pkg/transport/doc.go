// Package transport carries remote bus messages over TCP.
//
// The transport layer handles:
//   - Length-prefixed message framing
//   - Optional pre-shared key authentication
//   - Connection tracking and graceful shutdown
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      CBOR Messages             │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│   PSK challenge (optional)     │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// # Authentication
//
// When a pre-shared key is configured the server opens every connection
// with a 32-byte random nonce. The client answers with
// HMAC-SHA256(k, nonce) where k = HKDF-SHA256(psk, salt=nonce,
// info="regio-bus auth"), and the server replies with a one-byte verdict.
// Messages flow only after a positive verdict.
package transport
