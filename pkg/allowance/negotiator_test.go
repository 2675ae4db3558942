package allowance

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
)

var (
	testToken   = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	testSpender = common.HexToAddress("0x00000000000000000000000000000000000000f0")
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(ledger.NewMemoryKV(), "test_tx", "0xowner", zap.NewNop())
	if err != nil {
		t.Fatalf("Open ledger failed: %v", err)
	}
	return l
}

func approvalTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: 7, Gas: 60000, GasPrice: big.NewInt(1), To: &testToken})
}

func TestEnsureAllowance_SufficientAllowanceIsNoOp(t *testing.T) {
	approveCalled := false
	tokens := &MockTokenSource{
		TokenFunc: func(address common.Address) (Token, error) {
			return &MockToken{
				AllowanceFunc: func(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error) {
					return big.NewInt(1000), nil
				},
				ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
					approveCalled = true
					return approvalTx(), nil
				},
			}, nil
		},
	}
	led := newTestLedger(t)
	n := NewNegotiator(tokens, &MockSigner{}, &MockWatcher{}, led, zap.NewNop())

	if err := n.EnsureAllowance(context.Background(), testToken, testSpender, big.NewInt(500)); err != nil {
		t.Fatalf("EnsureAllowance failed: %v", err)
	}
	if approveCalled {
		t.Error("Expected no approval when allowance already covers the amount")
	}
	if len(led.Entries()) != 0 {
		t.Errorf("Expected no ledger entry, got %d", len(led.Entries()))
	}
}

func TestEnsureAllowance_ApprovesExactAmount(t *testing.T) {
	var approvedAmount *big.Int
	tokens := &MockTokenSource{
		TokenFunc: func(address common.Address) (Token, error) {
			return &MockToken{
				AllowanceFunc: func(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error) {
					return big.NewInt(100), nil
				},
				ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
					if spender != testSpender {
						t.Errorf("Expected spender %s, got %s", testSpender.Hex(), spender.Hex())
					}
					approvedAmount = amount
					return approvalTx(), nil
				},
			}, nil
		},
	}
	led := newTestLedger(t)
	watcher := &MockWatcher{}
	n := NewNegotiator(tokens, &MockSigner{}, watcher, led, zap.NewNop())

	if err := n.EnsureAllowance(context.Background(), testToken, testSpender, big.NewInt(500)); err != nil {
		t.Fatalf("EnsureAllowance failed: %v", err)
	}

	// Exactly the required amount, never unlimited.
	if approvedAmount == nil || approvedAmount.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("Expected approval for exactly 500, got %v", approvedAmount)
	}

	entries := led.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Type != ledger.TypeTokenApproval {
		t.Errorf("Expected token_approval entry, got %s", entries[0].Type)
	}
	if len(watcher.watchedHashes()) != 1 {
		t.Errorf("Expected approval handed to monitor, got %d watches", len(watcher.watchedHashes()))
	}
}

func TestEnsureAllowance_FailedApprovalPropagates(t *testing.T) {
	tokens := &MockTokenSource{
		TokenFunc: func(address common.Address) (Token, error) {
			return &MockToken{
				ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
					return approvalTx(), nil
				},
			}, nil
		},
	}
	watcher := &MockWatcher{
		WatchFunc: func(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool {
			cb.OnFailed(errors.New("transaction reverted"))
			return true
		},
	}
	n := NewNegotiator(tokens, &MockSigner{}, watcher, newTestLedger(t), zap.NewNop())

	err := n.EnsureAllowance(context.Background(), testToken, testSpender, big.NewInt(500))
	if err == nil {
		t.Fatal("Expected error when approval does not finalize")
	}
	if !apperrors.Is(err, apperrors.CategoryAllowance) {
		t.Errorf("Expected allowance error, got %v", err)
	}
}

func TestEnsureAllowance_DuplicateWatchFailsFast(t *testing.T) {
	// When the hash is already monitored no callback will ever fire for this
	// call; it must fail immediately instead of blocking on the context.
	tokens := &MockTokenSource{
		TokenFunc: func(address common.Address) (Token, error) {
			return &MockToken{
				ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
					return approvalTx(), nil
				},
			}, nil
		},
	}
	watcher := &MockWatcher{
		WatchFunc: func(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool {
			return false
		},
	}
	n := NewNegotiator(tokens, &MockSigner{}, watcher, newTestLedger(t), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	err := n.EnsureAllowance(ctx, testToken, testSpender, big.NewInt(500))
	if err == nil {
		t.Fatal("Expected error for already-monitored approval")
	}
	if !apperrors.Is(err, apperrors.CategoryAllowance) {
		t.Errorf("Expected allowance error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected immediate failure, took %s", elapsed)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected allowance failure, not a context error: %v", err)
	}
}

func TestEnsureAllowance_RejectsNonPositiveAmount(t *testing.T) {
	n := NewNegotiator(&MockTokenSource{}, &MockSigner{}, &MockWatcher{}, newTestLedger(t), zap.NewNop())

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		err := n.EnsureAllowance(context.Background(), testToken, testSpender, amount)
		if err == nil {
			t.Fatalf("Expected rejection for amount %v", amount)
		}
		if !apperrors.Is(err, apperrors.CategoryDataError) {
			t.Errorf("Expected data error for amount %v, got %v", amount, err)
		}
	}
}

func TestEnsureAll_StopsAtFirstFailure(t *testing.T) {
	var checked []common.Address
	tokens := &MockTokenSource{
		TokenFunc: func(address common.Address) (Token, error) {
			checked = append(checked, address)
			return &MockToken{
				AllowanceFunc: func(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error) {
					if len(checked) == 2 {
						return nil, errors.New("connection refused")
					}
					return big.NewInt(1000), nil
				},
			}, nil
		},
	}
	n := NewNegotiator(tokens, &MockSigner{}, &MockWatcher{}, newTestLedger(t), zap.NewNop())

	tokenAddrs := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
	}
	amounts := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}

	err := n.EnsureAll(context.Background(), tokenAddrs, testSpender, amounts)
	if err == nil {
		t.Fatal("Expected failure to propagate from the second token")
	}
	if len(checked) != 2 {
		t.Errorf("Expected negotiation to stop after the failing token, checked %d", len(checked))
	}
}

func TestEnsureAll_LengthMismatch(t *testing.T) {
	n := NewNegotiator(&MockTokenSource{}, &MockSigner{}, &MockWatcher{}, newTestLedger(t), zap.NewNop())

	err := n.EnsureAll(context.Background(),
		[]common.Address{testToken}, testSpender,
		[]*big.Int{big.NewInt(1), big.NewInt(2)})
	if err == nil {
		t.Fatal("Expected length mismatch error")
	}
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Errorf("Expected data error, got %v", err)
	}
}
