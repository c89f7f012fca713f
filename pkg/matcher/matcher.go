// Package matcher evaluates candidate addresses against a prefix/suffix
// pattern over their lowercase hex form.
package matcher

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Errors
var (
	ErrNotHex  = errors.New("pattern must contain only hex characters [0-9a-f]")
	ErrTooLong = errors.New("combined prefix and suffix exceed 40 hex characters")
)

const addressHexLen = 2 * common.AddressLength

// Criterion is an immutable prefix/suffix pattern. Both sides are compared
// against the lowercase 40-hex-character form of an address; an empty side
// is a wildcard.
type Criterion struct {
	prefix []byte
	suffix []byte
}

// NewCriterion normalizes (strips "0x", lowercases) and validates the
// pattern. Non-hex characters or a combined length over 40 are rejected.
func NewCriterion(prefix, suffix string) (Criterion, error) {
	p, err := normalize(prefix)
	if err != nil {
		return Criterion{}, err
	}
	s, err := normalize(suffix)
	if err != nil {
		return Criterion{}, err
	}
	if len(p)+len(s) > addressHexLen {
		return Criterion{}, fmt.Errorf("%w: %d + %d", ErrTooLong, len(p), len(s))
	}
	return Criterion{prefix: []byte(p), suffix: []byte(s)}, nil
}

func normalize(pattern string) (string, error) {
	p := strings.TrimSpace(pattern)
	if len(p) >= 2 && (p[0:2] == "0x" || p[0:2] == "0X") {
		p = p[2:]
	}
	p = strings.ToLower(p)
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return "", fmt.Errorf("%w: %q", ErrNotHex, pattern)
		}
	}
	return p, nil
}

// Matches reports whether the lowercase hex form of addr starts with the
// prefix and ends with the suffix.
func (c Criterion) Matches(addr common.Address) bool {
	var buf [addressHexLen]byte
	hex.Encode(buf[:], addr[:])
	if len(c.prefix) > 0 && !bytes.Equal(buf[:len(c.prefix)], c.prefix) {
		return false
	}
	if len(c.suffix) > 0 && !bytes.Equal(buf[addressHexLen-len(c.suffix):], c.suffix) {
		return false
	}
	return true
}

// Prefix returns the normalized prefix.
func (c Criterion) Prefix() string { return string(c.prefix) }

// Suffix returns the normalized suffix.
func (c Criterion) Suffix() string { return string(c.suffix) }

// IsWildcard reports whether the criterion matches every address.
func (c Criterion) IsWildcard() bool {
	return len(c.prefix) == 0 && len(c.suffix) == 0
}

// Describe returns a human-readable description of the criterion.
func (c Criterion) Describe() string {
	switch {
	case len(c.prefix) > 0 && len(c.suffix) > 0:
		return fmt.Sprintf("prefix %q and suffix %q", c.prefix, c.suffix)
	case len(c.prefix) > 0:
		return fmt.Sprintf("prefix %q", c.prefix)
	case len(c.suffix) > 0:
		return fmt.Sprintf("suffix %q", c.suffix)
	}
	return "any address (wildcard)"
}
