package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evnt-fi/vanity-address-generator/pkg/matcher"
)

// ErrUnknownMode is returned when a mode string does not name a search mode.
var ErrUnknownMode = errors.New(`mode must be "deployer" or "mnemonic"`)

// Mode selects which key space the search iterates.
type Mode int

const (
	// ModeContractDeployer generates random deployer keys and tests the
	// CREATE contract addresses across a nonce range.
	ModeContractDeployer Mode = iota
	// ModeMnemonicEOA generates random mnemonics and tests the accounts
	// derived along m/44'/60'/0'/0/i.
	ModeMnemonicEOA
)

// ParseMode maps a mode flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deployer", "contract-deployer":
		return ModeContractDeployer, nil
	case "mnemonic", "mnemonic-eoa":
		return ModeMnemonicEOA, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	switch m {
	case ModeContractDeployer:
		return "contract-deployer"
	case ModeMnemonicEOA:
		return "mnemonic-eoa"
	}
	return "unknown"
}

// Status is the terminal state of a search.
type Status int

const (
	// StatusFound means a candidate matched the criterion.
	StatusFound Status = iota
	// StatusExhausted means the attempt ceiling was reached without a match.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Result is the terminal value of one search invocation. On StatusFound it
// carries the full artifact needed to reconstruct the match; on
// StatusExhausted only the attempt count is set.
type Result struct {
	Status   Status
	Mode     Mode
	Attempts int64
	Duration time.Duration

	// ModeContractDeployer artifact
	PrivateKeyHex   string
	SenderAddress   string
	Nonce           uint64
	ContractAddress string

	// ModeMnemonicEOA artifact
	Mnemonic        string
	DerivationIndex uint32
	Address         string
}

// Found reports whether the result carries a matched artifact.
func (r *Result) Found() bool {
	return r.Status == StatusFound
}

// MatchedAddress returns the address that satisfied the criterion.
func (r *Result) MatchedAddress() string {
	if r.Mode == ModeContractDeployer {
		return r.ContractAddress
	}
	return r.Address
}

// WorkerConfig contains the per-run parameters shared by all workers. It is
// built once before the search and never mutated afterwards.
type WorkerConfig struct {
	Mode                 Mode
	Criterion            matcher.Criterion
	MaxNonce             uint64
	AddressesPerMnemonic uint32
	Passphrase           string
	Ceiling              int64
}
