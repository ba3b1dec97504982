package transport

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Authentication constants.
const (
	// NonceSize is the size of the server challenge.
	NonceSize = 32

	// AuthInfo is the HKDF info string binding derived keys to this use.
	AuthInfo = "regio-bus auth"
)

// ErrAuthFailed is returned when the peer fails the key challenge.
var ErrAuthFailed = errors.New("authentication failed")

const (
	verdictReject byte = 0
	verdictAccept byte = 1
)

// DeriveKey derives the per-connection MAC key from the pre-shared key.
func DeriveKey(psk, nonce []byte) ([]byte, error) {
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, psk, nonce, []byte(AuthInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive auth key: %w", err)
	}
	return key, nil
}

// Proof returns the client's answer to a challenge.
func Proof(psk, nonce []byte) ([]byte, error) {
	key, err := DeriveKey(psk, nonce)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(nonce)
	return mac.Sum(nil), nil
}

// serverHandshake challenges the client and reports whether it proved
// knowledge of psk. The client always learns the verdict.
func serverHandshake(f *Framer, psk []byte) error {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	if err := f.WriteFrame(nonce); err != nil {
		return err
	}

	answer, err := f.ReadFrame()
	if err != nil {
		return fmt.Errorf("read auth proof: %w", err)
	}
	want, err := Proof(psk, nonce)
	if err != nil {
		return err
	}
	if !hmac.Equal(answer, want) {
		_ = f.WriteFrame([]byte{verdictReject})
		return ErrAuthFailed
	}
	return f.WriteFrame([]byte{verdictAccept})
}

// clientHandshake answers the server challenge with psk.
func clientHandshake(f *Framer, psk []byte) error {
	nonce, err := f.ReadFrame()
	if err != nil {
		return fmt.Errorf("read auth challenge: %w", err)
	}
	if len(nonce) != NonceSize {
		return fmt.Errorf("%w: challenge of %d bytes", ErrAuthFailed, len(nonce))
	}
	proof, err := Proof(psk, nonce)
	if err != nil {
		return err
	}
	if err := f.WriteFrame(proof); err != nil {
		return err
	}

	verdict, err := f.ReadFrame()
	if err != nil {
		return fmt.Errorf("read auth verdict: %w", err)
	}
	if len(verdict) != 1 || verdict[0] != verdictAccept {
		return ErrAuthFailed
	}
	return nil
}
