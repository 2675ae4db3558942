package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
)

// MockReceiptSource is a mock implementation of ReceiptSource
type MockReceiptSource struct {
	WaitForReceiptFunc func(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error)
	CheckReceiptFunc   func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func (m *MockReceiptSource) WaitForReceipt(ctx context.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	if m.WaitForReceiptFunc != nil {
		return m.WaitForReceiptFunc(ctx, txHash, timeout)
	}
	return nil, nil
}

func (m *MockReceiptSource) CheckReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if m.CheckReceiptFunc != nil {
		return m.CheckReceiptFunc(ctx, txHash)
	}
	return nil, nil
}

// MockReconciler records terminal status updates
type MockReconciler struct {
	mu      sync.Mutex
	updates []reconcileCall
}

type reconcileCall struct {
	hash    string
	status  ledger.Status
	outcome *ledger.Outcome
}

func (m *MockReconciler) UpdateTransactionStatus(hash string, status ledger.Status, outcome *ledger.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, reconcileCall{hash: hash, status: status, outcome: outcome})
	return nil
}

func (m *MockReconciler) calls() []reconcileCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]reconcileCall, len(m.updates))
	copy(out, m.updates)
	return out
}
