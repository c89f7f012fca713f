package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evnt-fi/vanity-address-generator/internal/config"
	"github.com/evnt-fi/vanity-address-generator/internal/crypto"
	"github.com/evnt-fi/vanity-address-generator/internal/hdwallet"
	logpkg "github.com/evnt-fi/vanity-address-generator/internal/logger"
	minerpkg "github.com/evnt-fi/vanity-address-generator/pkg/miner"
	"github.com/evnt-fi/vanity-address-generator/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vanitygen",
		Short: "Ethereum vanity address generator",
		Long: `A command line utility that searches a cryptographic key space for
artifacts whose derived Ethereum address matches a prefix/suffix pattern.

Two search modes are supported: "deployer" brute-forces random deployer keys
and tests the CREATE contract addresses for nonces 0..max-nonce, and
"mnemonic" brute-forces random 12-word mnemonics and tests the accounts
derived along m/44'/60'/0'/0/i.`,
		Run: runSearch,
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	rootCmd.Flags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Address prefix to match (hex, case-insensitive)")
	rootCmd.Flags().StringVarP(&cfg.Suffix, "suffix", "s", "", "Address suffix to match (hex, case-insensitive)")
	rootCmd.Flags().StringVarP(&cfg.Mode, "mode", "m", cfg.Mode, `Search mode: "deployer" or "mnemonic"`)
	rootCmd.Flags().Uint64VarP(&cfg.MaxNonce, "max-nonce", "n", cfg.MaxNonce, "Highest deployment nonce tested per key (deployer mode)")
	rootCmd.Flags().Uint32VarP(&cfg.AddressesPerMnemonic, "addresses", "a", cfg.AddressesPerMnemonic, "Derived addresses tested per mnemonic (mnemonic mode)")
	rootCmd.Flags().StringVar(&cfg.Passphrase, "passphrase", "", "Optional BIP-39 seed passphrase (mnemonic mode)")
	rootCmd.Flags().Int64VarP(&cfg.IterationCeiling, "ceiling", "c", cfg.IterationCeiling, "Give up after this many attempts")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", cfg.LogInterval, "Logging interval in seconds")

	rootCmd.AddCommand(newEOACommand(), newContractCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, args []string) {
	setupLogging()

	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Starting %s search with %d workers...", cfg.Mode, cfg.Workers)
	logger.Printf("Target: %s", cfg.GetTargetDescription())
	logger.Printf("Attempt ceiling: %d", cfg.IterationCeiling)

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	resultChan := make(chan *types.Result, 1)
	errChan := make(chan error, 1)
	go func() {
		result, err := miner.Search()
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- result
	}()

	select {
	case result := <-resultChan:
		reportResult(result)
	case err := <-errChan:
		logger.Printf("Search aborted: %v", err)
		os.Exit(1)
	case <-sigChan:
		logger.Println("Received interrupt signal (Ctrl+C). Stopping workers...")
		miner.Stop()
		select {
		case result := <-resultChan:
			if result.Found() {
				reportResult(result)
			} else {
				logger.Printf("Search stopped by user after %d attempts.", result.Attempts)
			}
		case err := <-errChan:
			logger.Printf("Search aborted: %v", err)
			os.Exit(1)
		}
	}
}

func reportResult(result *types.Result) {
	if !result.Found() {
		logger.Printf("No match found: attempt ceiling of %d reached.", result.Attempts)
		logger.Printf("Duration: %v", result.Duration)
		return
	}

	logger.Printf("🎉 Found match!")
	switch result.Mode {
	case types.ModeContractDeployer:
		logger.Printf("Private key: %s", result.PrivateKeyHex)
		logger.Printf("Deployer (EOA) address: %s", result.SenderAddress)
		logger.Printf("Nonce: %d", result.Nonce)
		logger.Printf("Contract address: %s", result.ContractAddress)
	case types.ModeMnemonicEOA:
		logger.Printf("Mnemonic: %s", result.Mnemonic)
		logger.Printf("Derivation path: "+hdwallet.PathTemplate, result.DerivationIndex)
		logger.Printf("Private key: %s", result.PrivateKeyHex)
		logger.Printf("Address: %s", result.Address)
	}
	logger.Printf("Attempts: %d", result.Attempts)
	logger.Printf("Duration: %v", result.Duration)
	logger.Printf("Rate: %s", logpkg.FormatRate(result.Attempts, result.Duration))
}

// newEOACommand recomputes the account address for a known mnemonic and
// derivation index, e.g. to double-check a previously found result.
func newEOACommand() *cobra.Command {
	var (
		mnemonic   string
		index      uint32
		passphrase string
	)
	cmd := &cobra.Command{
		Use:   "eoa",
		Short: "Derive the EOA address for a mnemonic and derivation index",
		Run: func(cmd *cobra.Command, args []string) {
			seed, err := hdwallet.MnemonicToSeed(mnemonic, passphrase)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			acct, err := hdwallet.DeriveAccount(seed, index)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Mnemonic: %s\n", mnemonic)
			fmt.Printf("Derivation path: %s\n", acct.Path())
			fmt.Printf("EOA address: %s\n", crypto.ChecksumAddress(acct.Address))
		},
	}
	cmd.Flags().StringVarP(&mnemonic, "mnemonic", "m", "", "BIP-39 mnemonic phrase (required)")
	cmd.Flags().Uint32VarP(&index, "index", "i", 0, "Address index along m/44'/60'/0'/0")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Optional BIP-39 seed passphrase")
	_ = cmd.MarkFlagRequired("mnemonic")
	return cmd
}

// newContractCommand computes the CREATE contract address a deployer would
// produce at a given nonce.
func newContractCommand() *cobra.Command {
	var (
		deployer string
		nonce    uint64
	)
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Compute the CREATE contract address for a deployer and nonce",
		Run: func(cmd *cobra.Command, args []string) {
			sender, err := crypto.ParseAddress(deployer)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			addr := crypto.ContractAddress(sender, nonce)
			fmt.Printf("Deployer (EOA) address: %s\n", crypto.ChecksumAddress(sender))
			fmt.Printf("Nonce: %d\n", nonce)
			fmt.Printf("Contract address: %s\n", crypto.ChecksumAddress(addr))
		},
	}
	cmd.Flags().StringVarP(&deployer, "address", "d", "", "Deployer EOA address (required)")
	cmd.Flags().Uint64VarP(&nonce, "nonce", "n", 0, "Deployment nonce")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func setupLogging() {
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
}
