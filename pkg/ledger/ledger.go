// Package ledger keeps the per-account record of submitted transactions.
// Entries are appended at submission time, mutated exactly once when the
// monitor resolves their outcome, and persisted through a string key-value
// store namespaced by account.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/internal/metrics"
)

// Registry is the seam through which any surface feeds the ledger. It is
// passed into submission paths explicitly; there is no ambient global.
type Registry interface {
	AddTransaction(entry *Entry) (*Entry, error)
	UpdateTransactionStatus(hash string, status Status, outcome *Outcome) error
}

// Ledger is the account-scoped transaction record. Only submission paths
// append entries and only the monitor writes terminal statuses.
type Ledger struct {
	kv      KV
	key     string
	account string
	logger  *zap.Logger

	mu      sync.RWMutex
	entries []*Entry
	stats   Stats
}

// Open loads the ledger for an account from the key-value store. A missing
// key yields an empty ledger.
func Open(kv KV, prefix, account string, logger *zap.Logger) (*Ledger, error) {
	account = strings.ToLower(account)
	l := &Ledger{
		kv:      kv,
		key:     fmt.Sprintf("%s_%s", prefix, account),
		account: account,
		logger:  logger,
	}

	raw, err := kv.Get(l.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load ledger for %s: %w", account, err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &l.entries); err != nil {
			return nil, fmt.Errorf("failed to decode ledger for %s: %w", account, err)
		}
	}

	l.stats = ComputeStats(l.entries)
	l.publishPending()
	return l, nil
}

// Account returns the lowercased account this ledger is scoped to
func (l *Ledger) Account() string {
	return l.account
}

// Record appends a new entry with status pending. The entry must carry the
// transaction hash: submission failures that never produced a hash are
// surfaced synchronously to the caller and recorded nowhere, so no entry can
// linger unreconcilable.
func (l *Ledger) Record(entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("nil entry")
	}
	if !entry.Type.Valid() {
		return nil, fmt.Errorf("unknown entry type %q", entry.Type)
	}
	if entry.Hash == "" {
		return nil, errors.New("entry has no transaction hash")
	}

	entry.ID = uuid.NewString()
	entry.Status = StatusPending
	entry.Timestamp = time.Now().UTC()
	entry.Outcome = nil

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if err := l.persist(); err != nil {
		l.entries = l.entries[:len(l.entries)-1]
		return nil, err
	}

	l.stats = ComputeStats(l.entries)
	l.publishPending()

	l.logger.Info("Ledger entry recorded",
		zap.String("id", entry.ID),
		zap.String("type", string(entry.Type)),
		zap.String("tx_hash", entry.Hash))

	return entry, nil
}

// Reconcile merges a terminal status and outcome into the entry matching the
// hash. An unknown hash or an already-terminal entry is a no-op: the monitor
// may fire before or after the entry is visible, and terminal updates must be
// idempotent.
func (l *Ledger) Reconcile(hash string, status Status, outcome *Outcome) error {
	if !status.Terminal() {
		return fmt.Errorf("reconcile requires a terminal status, got %q", status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var entry *Entry
	for _, e := range l.entries {
		if e.Hash == hash {
			entry = e
			break
		}
	}
	if entry == nil {
		l.logger.Debug("Reconcile for unknown hash ignored", zap.String("tx_hash", hash))
		return nil
	}
	if entry.Status.Terminal() {
		l.logger.Debug("Reconcile for terminal entry ignored",
			zap.String("tx_hash", hash),
			zap.String("status", string(entry.Status)))
		return nil
	}

	previous := entry.Status
	entry.Status = status
	entry.Outcome = outcome
	if err := l.persist(); err != nil {
		entry.Status = previous
		entry.Outcome = nil
		return err
	}

	l.stats = ComputeStats(l.entries)
	l.publishPending()

	l.logger.Info("Ledger entry reconciled",
		zap.String("id", entry.ID),
		zap.String("tx_hash", hash),
		zap.String("status", string(status)))

	return nil
}

// Entries returns a snapshot of all entries, newest last
func (l *Ledger) Entries() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Entry, len(l.entries))
	for i, e := range l.entries {
		clone := *e
		if e.Outcome != nil {
			outcome := *e.Outcome
			clone.Outcome = &outcome
		}
		out[i] = &clone
	}
	return out
}

// Stats returns the cached derived statistics
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Clear removes all entries and statistics for this account only
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Remove(l.key); err != nil {
		return fmt.Errorf("failed to clear ledger for %s: %w", l.account, err)
	}
	l.entries = nil
	l.stats = ComputeStats(nil)
	l.publishPending()

	l.logger.Info("Ledger cleared", zap.String("account", l.account))
	return nil
}

// AddTransaction implements Registry
func (l *Ledger) AddTransaction(entry *Entry) (*Entry, error) {
	return l.Record(entry)
}

// UpdateTransactionStatus implements Registry
func (l *Ledger) UpdateTransactionStatus(hash string, status Status, outcome *Outcome) error {
	return l.Reconcile(hash, status, outcome)
}

// persist writes the full entry set under the account key. Caller holds the lock.
func (l *Ledger) persist() error {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := l.kv.Set(l.key, string(raw)); err != nil {
		return fmt.Errorf("failed to persist ledger for %s: %w", l.account, err)
	}
	return nil
}

// publishPending updates the pending-entries gauge. Caller holds the lock.
func (l *Ledger) publishPending() {
	pending := 0
	for _, e := range l.entries {
		if e.Status == StatusPending {
			pending++
		}
	}
	metrics.PendingEntries.Set(float64(pending))
}
