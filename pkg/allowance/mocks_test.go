package allowance

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
)

// MockToken is a mock implementation of Token
type MockToken struct {
	AllowanceFunc func(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error)
	ApproveFunc   func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
}

func (m *MockToken) Allowance(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error) {
	if m.AllowanceFunc != nil {
		return m.AllowanceFunc(opts, owner, spender)
	}
	return big.NewInt(0), nil
}

func (m *MockToken) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(opts, spender, amount)
	}
	return nil, nil
}

// MockTokenSource returns the same token for every address
type MockTokenSource struct {
	TokenFunc func(address common.Address) (Token, error)
}

func (m *MockTokenSource) Token(address common.Address) (Token, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(address)
	}
	return &MockToken{}, nil
}

// MockSigner is a mock implementation of Signer
type MockSigner struct {
	AddressFunc       func() common.Address
	GetTransactorFunc func(ctx context.Context) (*bind.TransactOpts, error)
}

func (m *MockSigner) Address() common.Address {
	if m.AddressFunc != nil {
		return m.AddressFunc()
	}
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (m *MockSigner) GetTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	if m.GetTransactorFunc != nil {
		return m.GetTransactorFunc(ctx)
	}
	return &bind.TransactOpts{From: m.Address(), Context: ctx}, nil
}

// MockWatcher resolves every watched transaction immediately
type MockWatcher struct {
	WatchFunc func(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool

	mu      sync.Mutex
	watched []common.Hash
}

func (m *MockWatcher) Watch(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool {
	m.mu.Lock()
	m.watched = append(m.watched, txHash)
	m.mu.Unlock()

	if m.WatchFunc != nil {
		return m.WatchFunc(txHash, entryType, cb)
	}
	if cb.OnConfirmed != nil {
		cb.OnConfirmed(&types.Receipt{Status: types.ReceiptStatusSuccessful})
	}
	return true
}

func (m *MockWatcher) watchedHashes() []common.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]common.Hash, len(m.watched))
	copy(out, m.watched)
	return out
}
