package ship

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
)

// MockFactory is a mock implementation of Factory
type MockFactory struct {
	AddressFunc    func() common.Address
	CreateShipFunc func(opts *bind.TransactOpts, tokens []common.Address, amounts []*big.Int, destinationChainSelector uint64, capacity uint8) (*types.Transaction, error)
	BoardShipFunc  func(opts *bind.TransactOpts, ship common.Address, tokens []common.Address, amounts []*big.Int) (*types.Transaction, error)
	LaunchShipFunc func(opts *bind.TransactOpts, ship common.Address) (*types.Transaction, error)
	GetShipFunc    func(opts *bind.CallOpts, ship common.Address) (*contracts.ShipState, error)
}

func (m *MockFactory) Address() common.Address {
	if m.AddressFunc != nil {
		return m.AddressFunc()
	}
	return common.HexToAddress("0x00000000000000000000000000000000000000f0")
}

func (m *MockFactory) CreateShip(opts *bind.TransactOpts, tokens []common.Address, amounts []*big.Int, destinationChainSelector uint64, capacity uint8) (*types.Transaction, error) {
	if m.CreateShipFunc != nil {
		return m.CreateShipFunc(opts, tokens, amounts, destinationChainSelector, capacity)
	}
	return nil, nil
}

func (m *MockFactory) BoardShip(opts *bind.TransactOpts, ship common.Address, tokens []common.Address, amounts []*big.Int) (*types.Transaction, error) {
	if m.BoardShipFunc != nil {
		return m.BoardShipFunc(opts, ship, tokens, amounts)
	}
	return nil, nil
}

func (m *MockFactory) LaunchShip(opts *bind.TransactOpts, ship common.Address) (*types.Transaction, error) {
	if m.LaunchShipFunc != nil {
		return m.LaunchShipFunc(opts, ship)
	}
	return nil, nil
}

func (m *MockFactory) GetShip(opts *bind.CallOpts, ship common.Address) (*contracts.ShipState, error) {
	if m.GetShipFunc != nil {
		return m.GetShipFunc(opts, ship)
	}
	return nil, nil
}

// MockFeeCalculator is a mock implementation of FeeCalculator
type MockFeeCalculator struct {
	CreationFeeFunc func(ctx context.Context, capacity uint8, tokenCount int) (decimal.Decimal, error)
	BoardingFeeFunc func(ctx context.Context) (decimal.Decimal, error)
}

func (m *MockFeeCalculator) CreationFee(ctx context.Context, capacity uint8, tokenCount int) (decimal.Decimal, error) {
	if m.CreationFeeFunc != nil {
		return m.CreationFeeFunc(ctx, capacity, tokenCount)
	}
	return decimal.RequireFromString("0.01"), nil
}

func (m *MockFeeCalculator) BoardingFee(ctx context.Context) (decimal.Decimal, error) {
	if m.BoardingFeeFunc != nil {
		return m.BoardingFeeFunc(ctx)
	}
	return decimal.RequireFromString("0.001"), nil
}

// MockNegotiator is a mock implementation of Negotiator
type MockNegotiator struct {
	EnsureAllFunc func(ctx context.Context, tokens []common.Address, spender common.Address, amounts []*big.Int) error

	mu    sync.Mutex
	calls int
}

func (m *MockNegotiator) EnsureAll(ctx context.Context, tokens []common.Address, spender common.Address, amounts []*big.Int) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.EnsureAllFunc != nil {
		return m.EnsureAllFunc(ctx, tokens, spender, amounts)
	}
	return nil
}

func (m *MockNegotiator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSigner is a mock implementation of Signer
type MockSigner struct {
	AddressFunc       func() common.Address
	GetTransactorFunc func(ctx context.Context) (*bind.TransactOpts, error)
	NativeBalanceFunc func(ctx context.Context) (*big.Int, error)
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

func (m *MockSigner) NativeBalance(ctx context.Context) (*big.Int, error) {
	if m.NativeBalanceFunc != nil {
		return m.NativeBalanceFunc(ctx)
	}
	return new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)), nil
}

// MockWatcher records hand-offs to the monitor
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
	return true
}

func (m *MockWatcher) watchedHashes() []common.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]common.Hash, len(m.watched))
	copy(out, m.watched)
	return out
}
