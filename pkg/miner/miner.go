// Package miner drives the vanity search: a fixed-size pool of workers
// iterates the configured key space until the first match or until the
// shared attempt ceiling is spent.
package miner

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evnt-fi/vanity-address-generator/internal/config"
	"github.com/evnt-fi/vanity-address-generator/internal/logger"
	"github.com/evnt-fi/vanity-address-generator/pkg/types"
	"github.com/evnt-fi/vanity-address-generator/pkg/worker"
)

// Miner coordinates one single-shot search. It holds no state across
// invocations; repeated searches require a fresh Miner.
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	workerConfig *types.WorkerConfig
	attempts     int64
	result       *types.Result
	err          error
	mu           sync.Mutex
	done         chan struct{}
	wg           sync.WaitGroup
	once         sync.Once
}

// NewMiner validates cfg and prepares a search. Configuration problems are
// surfaced here, synchronously, before any worker starts.
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	criterion, err := cfg.Criterion()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.SearchMode()
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return &Miner{
		config: cfg,
		logger: log,
		workerConfig: &types.WorkerConfig{
			Mode:                 mode,
			Criterion:            criterion,
			MaxNonce:             cfg.MaxNonce,
			AddressesPerMnemonic: cfg.AddressesPerMnemonic,
			Passphrase:           cfg.Passphrase,
			Ceiling:              cfg.IterationCeiling,
		},
		done: make(chan struct{}),
	}, nil
}

// Search runs the worker pool until the first match, attempt exhaustion, or
// Stop. The returned result is terminal: StatusFound carries the full
// artifact, StatusExhausted only the attempts used.
func (m *Miner) Search() (*types.Result, error) {
	start := time.Now()

	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.run()
	}

	var logTicker *time.Ticker
	var logDone chan struct{}
	if m.config.Verbose {
		interval := time.Duration(m.config.LogInterval) * time.Second
		logTicker = time.NewTicker(interval)
		logDone = make(chan struct{})
		go m.periodicLogger(logTicker, logDone, start)

		m.logger.Printf("Search started with %d workers, logging every %d seconds...",
			m.config.Workers, m.config.LogInterval)
	}

	m.wg.Wait()

	if logTicker != nil {
		logTicker.Stop()
		close(logDone)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		m.result = &types.Result{
			Status:   types.StatusExhausted,
			Mode:     m.workerConfig.Mode,
			Attempts: atomic.LoadInt64(&m.attempts),
		}
	}
	m.result.Duration = time.Since(start)
	return m.result, nil
}

// run executes search iterations until a terminal condition. The done
// channel is checked once per outer iteration; a single iteration is cheap,
// so cancellation latency is at most one iteration.
func (m *Miner) run() {
	defer m.wg.Done()

	w := worker.NewWorker(m.workerConfig, &m.attempts)
	for {
		select {
		case <-m.done:
			return
		default:
		}

		result, budget, err := w.Step()
		if err != nil {
			m.fail(err)
			return
		}
		if result != nil {
			m.finish(result)
			return
		}
		if !budget {
			return
		}
	}
}

// finish records the first match and stops the remaining workers.
func (m *Miner) finish(result *types.Result) {
	m.mu.Lock()
	if m.result == nil {
		m.result = result
	}
	m.mu.Unlock()
	m.Stop()
}

func (m *Miner) fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
	m.Stop()
}

// Stop ends the search early. Safe to call from any goroutine, any number
// of times.
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// Attempts returns the attempts spent so far.
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}

// periodicLogger logs search progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)
			m.logger.Printf("Progress: %d attempts, %s, no match yet",
				attempts, logger.FormatRate(attempts, elapsed))
		case <-done:
			return
		}
	}
}
