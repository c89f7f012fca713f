// Package hdwallet generates BIP-39 mnemonics and derives Ethereum accounts
// along the standard BIP-44 path m/44'/60'/0'/0/i.
package hdwallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/evnt-fi/vanity-address-generator/internal/crypto"
)

// Errors
var (
	ErrInvalidMnemonic = errors.New("mnemonic failed wordlist or checksum validation")
	ErrDerivation      = errors.New("hd child key derivation failed")
)

// PathTemplate is the BIP-44 derivation path for Ethereum address index i.
const PathTemplate = "m/44'/60'/0'/0/%d"

const (
	mnemonicEntropyBits = 128 // 12 words

	// Invalid child keys occur with probability < 2^-127 per step. A run of
	// them indicates a broken primitive, not bad luck, so derivation gives
	// up after this many consecutive failures instead of spinning.
	maxInvalidChildren = 4
)

// Account is one derived sibling along the external chain. Siblings are
// independent: deriving index i never requires index i-1.
type Account struct {
	Index      uint32
	PrivateKey [32]byte
	Address    common.Address
}

// Path returns the full derivation path for the account.
func (a Account) Path() string {
	return fmt.Sprintf(PathTemplate, a.Index)
}

// PrivateKeyHex returns the 0x-prefixed lowercase hex encoding of the
// account's private key.
func (a Account) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(a.PrivateKey[:])
}

// GenerateMnemonic samples 128 bits of entropy and encodes it, plus the
// checksum word, as a 12-word mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", crypto.ErrEntropyUnavailable, err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("encoding mnemonic: %w", err)
	}
	return mnemonic, nil
}

// MnemonicToSeed stretches a validated mnemonic into a 64-byte seed via
// PBKDF2-SHA512 with 2048 iterations and salt "mnemonic"+passphrase.
// Deterministic in (mnemonic, passphrase).
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}

// DeriveAccounts derives count sibling accounts from seed along the external
// chain. Per BIP-32, an invalid child key is skipped and the next index is
// tried, so the returned indices are the ones external wallets will
// reconstruct the same addresses at.
func DeriveAccounts(seed []byte, count uint32) ([]Account, error) {
	chain, err := externalChain(seed)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, count)
	invalid := 0
	for index := uint32(0); uint32(len(accounts)) < count; index++ {
		acct, err := childAccount(chain, index)
		if err != nil {
			if errors.Is(err, hdkeychain.ErrInvalidChild) {
				invalid++
				if invalid > maxInvalidChildren {
					return nil, fmt.Errorf("%w: %d consecutive invalid children ending at index %d", ErrDerivation, invalid, index)
				}
				continue
			}
			return nil, err
		}
		invalid = 0
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// DeriveAccount derives the single account at the given address index. Used
// when recomputing a previously reported result, so an invalid child is an
// error here rather than a skip.
func DeriveAccount(seed []byte, index uint32) (Account, error) {
	chain, err := externalChain(seed)
	if err != nil {
		return Account{}, err
	}
	acct, err := childAccount(chain, index)
	if errors.Is(err, hdkeychain.ErrInvalidChild) {
		return Account{}, fmt.Errorf("%w: invalid child at index %d", ErrDerivation, index)
	}
	return acct, err
}

// externalChain walks m/44'/60'/0'/0 from the master key.
func externalChain(seed []byte) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: master key: %v", ErrDerivation, err)
	}
	steps := []uint32{
		44 + hdkeychain.HardenedKeyStart, // purpose
		60 + hdkeychain.HardenedKeyStart, // coin type
		0 + hdkeychain.HardenedKeyStart,  // account
		0,                                // external chain
	}
	for _, step := range steps {
		if key, err = key.Derive(step); err != nil {
			return nil, fmt.Errorf("%w: path step %#x: %v", ErrDerivation, step, err)
		}
	}
	return key, nil
}

func childAccount(chain *hdkeychain.ExtendedKey, index uint32) (Account, error) {
	child, err := chain.Derive(index)
	if err != nil {
		if errors.Is(err, hdkeychain.ErrInvalidChild) {
			return Account{}, err
		}
		return Account{}, fmt.Errorf("%w: index %d: %v", ErrDerivation, index, err)
	}
	priv, err := child.ECPrivKey()
	if err != nil {
		return Account{}, fmt.Errorf("%w: index %d: %v", ErrDerivation, index, err)
	}

	acct := Account{Index: index}
	copy(acct.PrivateKey[:], priv.Serialize())
	pub := priv.PubKey().SerializeUncompressed()
	acct.Address = crypto.EOAAddress(pub[1:])
	return acct, nil
}
