package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/evnt-fi/vanity-address-generator/pkg/matcher"
	"github.com/evnt-fi/vanity-address-generator/pkg/types"
)

// Errors
var (
	ErrCeilingNotPositive     = errors.New("iteration ceiling must be positive")
	ErrNoAddressesPerSeed     = errors.New("addresses per mnemonic must be at least 1")
	ErrLogIntervalNotPositive = errors.New("log interval must be a positive number of seconds")
)

// Default bounds, matching the original search tooling.
const (
	DefaultMaxNonce             = 5
	DefaultAddressesPerMnemonic = 10
	DefaultIterationCeiling     = 1_000_000_000
	DefaultLogInterval          = 5
)

// Config holds the application configuration. It is validated once before a
// search starts and treated as immutable afterwards.
type Config struct {
	Workers              int
	Prefix               string
	Suffix               string
	Mode                 string
	MaxNonce             uint64
	AddressesPerMnemonic uint32
	Passphrase           string
	IterationCeiling     int64
	Verbose              bool
	LogFile              string
	LogInterval          int // logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:              runtime.NumCPU(),
		Mode:                 types.ModeContractDeployer.String(),
		MaxNonce:             DefaultMaxNonce,
		AddressesPerMnemonic: DefaultAddressesPerMnemonic,
		IterationCeiling:     DefaultIterationCeiling,
		LogInterval:          DefaultLogInterval,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := matcher.NewCriterion(c.Prefix, c.Suffix); err != nil {
		return err
	}
	mode, err := types.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if c.IterationCeiling <= 0 {
		return fmt.Errorf("%w: got %d", ErrCeilingNotPositive, c.IterationCeiling)
	}
	if mode == types.ModeMnemonicEOA && c.AddressesPerMnemonic < 1 {
		return ErrNoAddressesPerSeed
	}
	// the interval only feeds the progress ticker, which is verbose-only
	if c.Verbose && c.LogInterval <= 0 {
		return fmt.Errorf("%w: got %d", ErrLogIntervalNotPositive, c.LogInterval)
	}
	return nil
}

// Criterion builds the match criterion from the configured pattern.
func (c *Config) Criterion() (matcher.Criterion, error) {
	return matcher.NewCriterion(c.Prefix, c.Suffix)
}

// SearchMode parses the configured mode.
func (c *Config) SearchMode() (types.Mode, error) {
	return types.ParseMode(c.Mode)
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	criterion, err := c.Criterion()
	if err != nil {
		return "invalid: " + err.Error()
	}
	return criterion.Describe()
}
