package miner

import (
	"errors"
	"testing"

	"github.com/evnt-fi/vanity-address-generator/internal/config"
	"github.com/evnt-fi/vanity-address-generator/internal/logger"
	"github.com/evnt-fi/vanity-address-generator/pkg/matcher"
	"github.com/evnt-fi/vanity-address-generator/pkg/types"
)

func newTestConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Workers = 1
	cfg.Mode = "deployer"
	return cfg
}

func TestNewMiner(t *testing.T) {
	cfg := newTestConfig()
	cfg.Prefix = "0000"
	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	if m == nil {
		t.Fatal("NewMiner returned nil")
	}
	if m.config != cfg {
		t.Error("Config not set correctly")
	}
}

// Configuration problems surface synchronously, before any worker starts.
func TestNewMinerRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:    "non-hex prefix",
			mutate:  func(c *config.Config) { c.Prefix = "xyz" },
			wantErr: matcher.ErrNotHex,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *config.Config) { c.Mode = "quantum" },
			wantErr: types.ErrUnknownMode,
		},
		{
			name:    "non-positive ceiling",
			mutate:  func(c *config.Config) { c.IterationCeiling = 0 },
			wantErr: config.ErrCeilingNotPositive,
		},
		{
			name: "mnemonic mode without addresses",
			mutate: func(c *config.Config) {
				c.Mode = "mnemonic"
				c.AddressesPerMnemonic = 0
			},
			wantErr: config.ErrNoAddressesPerSeed,
		},
		{
			name: "verbose with non-positive log interval",
			mutate: func(c *config.Config) {
				c.Verbose = true
				c.LogInterval = 0
			},
			wantErr: config.ErrLogIntervalNotPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)
			if _, err := NewMiner(cfg, logger.New()); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewMiner error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// An 8-character prefix has 1-in-2^32 odds per attempt, so a ceiling of one
// attempt exhausts with overwhelming probability and the count is exact.
func TestSearchExhaustsAtCeiling(t *testing.T) {
	cfg := newTestConfig()
	cfg.Prefix = "deadbeef"
	cfg.MaxNonce = 0
	cfg.IterationCeiling = 1

	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	result, err := m.Search()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.Status != types.StatusExhausted {
		t.Fatalf("Status = %v, want exhausted", result.Status)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want exactly 1", result.Attempts)
	}
	if result.MatchedAddress() != "" {
		t.Errorf("exhausted result carries an artifact: %q", result.MatchedAddress())
	}
}

func TestSearchFindsWildcardImmediately(t *testing.T) {
	cfg := newTestConfig()
	cfg.Workers = 2
	cfg.IterationCeiling = 1000

	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	result, err := m.Search()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.Status != types.StatusFound {
		t.Fatalf("Status = %v, want found", result.Status)
	}
	if result.Attempts < 1 {
		t.Errorf("Attempts = %d, want >= 1", result.Attempts)
	}
	if result.ContractAddress == "" || result.SenderAddress == "" || result.PrivateKeyHex == "" {
		t.Errorf("incomplete artifact: %+v", result)
	}
	if result.Duration <= 0 {
		t.Error("Duration not set")
	}
}

// One key covers the whole nonce range, so a single-character prefix is found
// within a few thousand cheap hash attempts.
func TestSearchFindsSingleHexPrefix(t *testing.T) {
	cfg := newTestConfig()
	cfg.Workers = 2
	cfg.Prefix = "a"
	cfg.MaxNonce = 9999
	cfg.IterationCeiling = 200_000

	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	result, err := m.Search()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.Status != types.StatusFound {
		t.Fatalf("Status = %v, want found (odds of exhausting 200k attempts are negligible)", result.Status)
	}
	// strip "0x" for the prefix check; display form is checksummed
	hexPart := result.ContractAddress[2:]
	if hexPart[0] != 'a' && hexPart[0] != 'A' {
		t.Errorf("ContractAddress %s does not start with the requested prefix", result.ContractAddress)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := newTestConfig()
	m, err := NewMiner(cfg, logger.New())
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	m.Stop()
	m.Stop() // must not panic

	result, err := m.Search()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Status != types.StatusExhausted {
		t.Errorf("Status = %v, want exhausted for a pre-stopped search", result.Status)
	}
}
