// Package monitor awaits on-chain finalization of submitted transactions and
// reconciles outcomes back into the ledger. It is the only path by which
// pending ledger entries reach a terminal state.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/internal/metrics"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
)

// DefaultTimeout bounds how long a single transaction is awaited
const DefaultTimeout = 60 * time.Second

// ReceiptSource provides receipt lookups for submitted transactions
type ReceiptSource interface {
	WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error)
	CheckReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Reconciler receives terminal outcomes for pending ledger entries
type Reconciler interface {
	UpdateTransactionStatus(hash string, status ledger.Status, outcome *ledger.Outcome) error
}

// Callbacks are invoked when a watched transaction resolves. Either field may
// be nil.
type Callbacks struct {
	OnConfirmed func(receipt *types.Receipt)
	OnFailed    func(err error)
}

// Monitor runs one bounded wait per transaction hash. Watches are detached
// from the submitting caller: the caller returns immediately and the outcome
// arrives later through the reconciler and callbacks.
type Monitor struct {
	source     ReceiptSource
	reconciler Reconciler
	timeout    time.Duration
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	watching map[common.Hash]struct{}
}

// New creates a monitor. A non-positive timeout selects DefaultTimeout.
func New(source ReceiptSource, reconciler Reconciler, timeout time.Duration, logger *zap.Logger) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		source:     source,
		reconciler: reconciler,
		timeout:    timeout,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		watching:   make(map[common.Hash]struct{}),
	}
}

// Watch starts awaiting the transaction with the given hash. At most one
// watcher ever runs per hash; a repeat invocation is a harmless no-op and
// returns false. The underlying transaction is never retried here.
func (m *Monitor) Watch(txHash common.Hash, entryType ledger.EntryType, cb Callbacks) bool {
	m.mu.Lock()
	if _, exists := m.watching[txHash]; exists {
		m.mu.Unlock()
		m.logger.Debug("Transaction already monitored", zap.String("tx_hash", txHash.Hex()))
		return false
	}
	m.watching[txHash] = struct{}{}
	m.mu.Unlock()

	metrics.MonitorWatches.Inc()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer metrics.MonitorWatches.Dec()
		m.await(txHash, entryType, cb)
	}()
	return true
}

// Stop cancels all in-flight watches and waits for them to drain
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Monitor) await(txHash common.Hash, entryType ledger.EntryType, cb Callbacks) {
	receipt, err := m.source.WaitForReceipt(m.ctx, txHash, m.timeout)

	// Shutdown detaches from in-flight transactions without deciding their
	// outcome; the entry stays pending for later reconciliation.
	if errors.Is(err, context.Canceled) {
		m.logger.Info("Watch detached before resolution",
			zap.String("tx_hash", txHash.Hex()),
			zap.String("type", string(entryType)))
		return
	}

	// A timed-out wait does not prove the transaction failed; poll once more
	// before committing to a failed status.
	if errors.Is(err, chain.ErrReceiptTimeout) {
		checkCtx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		late, lateErr := m.source.CheckReceipt(checkCtx, txHash)
		cancel()
		if lateErr == nil && late != nil {
			receipt, err = late, nil
		}
	}

	switch {
	case err != nil:
		m.resolve(txHash, entryType, ledger.StatusFailed, &ledger.Outcome{Error: err.Error()})
		if cb.OnFailed != nil {
			cb.OnFailed(err)
		}

	case receipt.Status == types.ReceiptStatusSuccessful:
		m.resolve(txHash, entryType, ledger.StatusConfirmed, &ledger.Outcome{
			BlockNumber: receipt.BlockNumber.Uint64(),
			GasUsed:     receipt.GasUsed,
		})
		if cb.OnConfirmed != nil {
			cb.OnConfirmed(receipt)
		}

	default:
		revertErr := errors.New("transaction reverted")
		m.resolve(txHash, entryType, ledger.StatusFailed, &ledger.Outcome{
			BlockNumber: receipt.BlockNumber.Uint64(),
			GasUsed:     receipt.GasUsed,
			Error:       revertErr.Error(),
		})
		if cb.OnFailed != nil {
			cb.OnFailed(revertErr)
		}
	}
}

func (m *Monitor) resolve(txHash common.Hash, entryType ledger.EntryType, status ledger.Status, outcome *ledger.Outcome) {
	metrics.TransactionOutcomes.WithLabelValues(string(entryType), string(status)).Inc()

	if err := m.reconciler.UpdateTransactionStatus(txHash.Hex(), status, outcome); err != nil {
		m.logger.Error("Failed to reconcile transaction outcome",
			zap.String("tx_hash", txHash.Hex()),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}

	m.logger.Info("Transaction resolved",
		zap.String("tx_hash", txHash.Hex()),
		zap.String("type", string(entryType)),
		zap.String("status", string(status)))
}
