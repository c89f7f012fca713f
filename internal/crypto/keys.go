package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Errors
var (
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
	ErrInvalidPrivateKey  = errors.New("invalid private key scalar")
)

// GeneratePrivateKey samples a uniformly random secp256k1 private key in
// [1, N-1]. The only failure mode is an unavailable randomness source, which
// is fatal for the caller: weaker randomness is never substituted.
func GeneratePrivateKey() (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return key, nil
}

// PrivateKeyFromBytes validates b as a 32-byte secp256k1 scalar and returns
// the corresponding key. Zero and >= curve order scalars are rejected with
// ErrInvalidPrivateKey so callers can discard and regenerate.
func PrivateKeyFromBytes(b []byte) (*ecdsa.PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes, want 32", ErrInvalidPrivateKey, len(b))
	}
	var b32 [32]byte
	copy(b32[:], b)
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes(&b32); overflow != 0 {
		return nil, fmt.Errorf("%w: scalar not below curve order", ErrInvalidPrivateKey)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return key, nil
}

// PrivateKeyHex returns the 0x-prefixed lowercase hex encoding of key,
// padded to 32 bytes.
func PrivateKeyHex(key *ecdsa.PrivateKey) string {
	return "0x" + hex.EncodeToString(ethcrypto.FromECDSA(key))
}
