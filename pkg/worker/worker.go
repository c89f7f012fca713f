package worker

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/evnt-fi/vanity-address-generator/internal/crypto"
	"github.com/evnt-fi/vanity-address-generator/internal/hdwallet"
	"github.com/evnt-fi/vanity-address-generator/pkg/types"
)

// KeySource produces candidate deployer keys.
type KeySource func() (*ecdsa.PrivateKey, error)

// MnemonicSource produces candidate mnemonics.
type MnemonicSource func() (string, error)

// Worker runs independent search iterations against a shared attempt budget.
// Each worker owns its candidate key material; the only shared state is the
// attempts counter, updated atomically.
type Worker struct {
	config    *types.WorkerConfig
	attempts  *int64
	keys      KeySource
	mnemonics MnemonicSource
}

// NewWorker creates a worker backed by the cryptographic random sources.
func NewWorker(config *types.WorkerConfig, attempts *int64) *Worker {
	return NewWorkerWithSources(config, attempts, crypto.GeneratePrivateKey, hdwallet.GenerateMnemonic)
}

// NewWorkerWithSources creates a worker with explicit candidate sources.
// Fixed sources make a search iteration fully deterministic.
func NewWorkerWithSources(config *types.WorkerConfig, attempts *int64, keys KeySource, mnemonics MnemonicSource) *Worker {
	return &Worker{
		config:    config,
		attempts:  attempts,
		keys:      keys,
		mnemonics: mnemonics,
	}
}

// Step runs one outer search iteration: one deployer key with its full nonce
// range, or one mnemonic with its sibling accounts. It returns a terminal
// result on the first match, (nil, true) when the iteration missed, and
// (nil, false) once the shared attempt budget is spent. Errors are fatal for
// the search (entropy loss, derivation bugs); recoverable edge cases never
// reach here.
func (w *Worker) Step() (*types.Result, bool, error) {
	if w.config.Mode == types.ModeMnemonicEOA {
		return w.stepMnemonic()
	}
	return w.stepDeployer()
}

func (w *Worker) stepDeployer() (*types.Result, bool, error) {
	key, err := w.keys()
	if err != nil {
		return nil, false, err
	}
	sender := crypto.PubkeyToAddress(&key.PublicKey)

	// The range is inclusive of MaxNonce; the exit is an equality check so
	// that MaxNonce == math.MaxUint64 cannot wrap nonce back to zero.
	for nonce := uint64(0); ; nonce++ {
		if !w.reserveAttempt() {
			return nil, false, nil
		}
		addr := crypto.ContractAddress(sender, nonce)
		if w.config.Criterion.Matches(addr) {
			return &types.Result{
				Status:          types.StatusFound,
				Mode:            types.ModeContractDeployer,
				Attempts:        w.attemptsUsed(),
				PrivateKeyHex:   crypto.PrivateKeyHex(key),
				SenderAddress:   crypto.ChecksumAddress(sender),
				Nonce:           nonce,
				ContractAddress: crypto.ChecksumAddress(addr),
			}, true, nil
		}
		if nonce == w.config.MaxNonce {
			break
		}
	}
	return nil, true, nil
}

func (w *Worker) stepMnemonic() (*types.Result, bool, error) {
	mnemonic, err := w.mnemonics()
	if err != nil {
		return nil, false, err
	}
	seed, err := hdwallet.MnemonicToSeed(mnemonic, w.config.Passphrase)
	if err != nil {
		return nil, false, err
	}
	accounts, err := hdwallet.DeriveAccounts(seed, w.config.AddressesPerMnemonic)
	if err != nil {
		return nil, false, err
	}

	for _, acct := range accounts {
		if !w.reserveAttempt() {
			return nil, false, nil
		}
		if w.config.Criterion.Matches(acct.Address) {
			return &types.Result{
				Status:          types.StatusFound,
				Mode:            types.ModeMnemonicEOA,
				Attempts:        w.attemptsUsed(),
				Mnemonic:        mnemonic,
				DerivationIndex: acct.Index,
				PrivateKeyHex:   acct.PrivateKeyHex(),
				Address:         crypto.ChecksumAddress(acct.Address),
			}, true, nil
		}
	}
	return nil, true, nil
}

// reserveAttempt claims one attempt against the shared ceiling. An
// over-claim is released again so the final count never exceeds the ceiling.
func (w *Worker) reserveAttempt() bool {
	if n := atomic.AddInt64(w.attempts, 1); n > w.config.Ceiling {
		atomic.AddInt64(w.attempts, -1)
		return false
	}
	return true
}

// attemptsUsed snapshots the shared counter, clamped to the ceiling: other
// workers may hold over-claims they have not released yet, and those must
// not leak into a reported result.
func (w *Worker) attemptsUsed() int64 {
	n := atomic.LoadInt64(w.attempts)
	if n > w.config.Ceiling {
		n = w.config.Ceiling
	}
	return n
}
