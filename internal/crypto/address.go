package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// AddressHexLen is the length of an address in hex characters, without "0x".
const AddressHexLen = 40

// Keccak256 calculates the keccak256 hash of the input bytes.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	return h.Sum(nil)
}

// EncodeList RLP-encodes items as a single list. The encoding must match the
// canonical network encoding exactly: a single byte of drift yields a wrong
// but syntactically valid contract address.
func EncodeList(items ...interface{}) []byte {
	enc, err := rlp.EncodeToBytes(items)
	if err != nil {
		// only reachable with an unsupported Go type, which is a
		// programming error at the call site
		panic(err)
	}
	return enc
}

// PublicKeyBytes returns the 64-byte X||Y encoding of pub, sign byte stripped.
func PublicKeyBytes(pub *ecdsa.PublicKey) []byte {
	buf := make([]byte, 64)
	pub.X.FillBytes(buf[:32])
	pub.Y.FillBytes(buf[32:])
	return buf
}

// EOAAddress computes the account address for a public key given as its
// 64-byte uncompressed encoding with the 0x04 prefix stripped.
func EOAAddress(pub64 []byte) common.Address {
	return common.BytesToAddress(Keccak256(pub64)[12:])
}

// PubkeyToAddress derives the account address controlled by pub.
func PubkeyToAddress(pub *ecdsa.PublicKey) common.Address {
	return EOAAddress(PublicKeyBytes(pub))
}

// ContractAddress computes the CREATE contract address that sender would
// deploy to at the given nonce: keccak256(rlp([sender, nonce]))[12:].
// The nonce is encoded per RLP integer rules (minimal big-endian, empty
// string for zero). Whether the deploying account actually holds that nonce
// is the caller's concern.
func ContractAddress(sender common.Address, nonce uint64) common.Address {
	return common.BytesToAddress(Keccak256(EncodeList(sender, nonce))[12:])
}

// ParseAddress decodes a 40-hex-character address string, with or without
// the "0x" prefix.
func ParseAddress(addr string) (common.Address, error) {
	h := strings.TrimSpace(addr)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h) != AddressHexLen {
		return common.Address{}, fmt.Errorf("invalid address length: got %d hex chars, want %d", len(h), AddressHexLen)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid address hex: %w", err)
	}
	return common.BytesToAddress(b), nil
}

// ChecksumAddress formats addr as an EIP-55 checksummed string.
func ChecksumAddress(addr common.Address) string {
	return toChecksumAddress(addr[:])
}

// toChecksumAddress converts a 20-byte address to an EIP-55 checksummed string.
func toChecksumAddress(addr20 []byte) string {
	if len(addr20) != 20 {
		panic(errors.New("address must be 20 bytes"))
	}
	hexLower := hex.EncodeToString(addr20) // lowercase
	hash := Keccak256([]byte(hexLower))
	var out strings.Builder
	out.Grow(2 + AddressHexLen)
	out.WriteString("0x")
	for i := 0; i < len(hexLower); i++ {
		c := hexLower[i]
		if c >= 'a' && c <= 'f' {
			// hash nibble at position i decides the case
			n := (hash[i/2] >> uint(4*(1-i%2))) & 0xF
			if n >= 8 {
				c -= 'a' - 'A'
			}
		}
		out.WriteByte(c)
	}
	return out.String()
}
