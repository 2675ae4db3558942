// Package allowance ensures a spender contract holds sufficient ERC-20
// allowance before a value-moving call, submitting approval transactions on
// demand and blocking until they finalize.
package allowance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/internal/metrics"
	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
)

// Token is the ERC-20 surface used during negotiation
type Token interface {
	Allowance(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error)
	Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
}

// TokenSource resolves a token address to its binding
type TokenSource interface {
	Token(address common.Address) (Token, error)
}

// Signer provides the submitting account and its transactors
type Signer interface {
	Address() common.Address
	GetTransactor(ctx context.Context) (*bind.TransactOpts, error)
}

// Watcher awaits finalization of a submitted transaction
type Watcher interface {
	Watch(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool
}

// BackendTokenSource builds ERC-20 bindings over a contract backend
type BackendTokenSource struct {
	backend bind.ContractBackend
}

// NewBackendTokenSource creates a token source over the given backend
func NewBackendTokenSource(backend bind.ContractBackend) *BackendTokenSource {
	return &BackendTokenSource{backend: backend}
}

// Token returns a binding for the token at the given address
func (s *BackendTokenSource) Token(address common.Address) (Token, error) {
	return contracts.NewERC20(address, s.backend)
}

// Negotiator checks and, when needed, raises token allowances. Each approval
// is for exactly the required amount, never unlimited.
type Negotiator struct {
	tokens   TokenSource
	signer   Signer
	watcher  Watcher
	registry ledger.Registry
	logger   *zap.Logger
}

// NewNegotiator creates an allowance negotiator
func NewNegotiator(tokens TokenSource, signer Signer, watcher Watcher, registry ledger.Registry, logger *zap.Logger) *Negotiator {
	return &Negotiator{
		tokens:   tokens,
		signer:   signer,
		watcher:  watcher,
		registry: registry,
		logger:   logger,
	}
}

// EnsureAllowance makes sure the spender may move at least amount of the
// token on behalf of the signing account. When the current allowance already
// covers the requirement no transaction is submitted. Otherwise one approval
// for exactly amount is submitted and the call blocks until it finalizes.
// Partial approval state is left as-is on failure; approvals cannot be
// transactionally undone.
func (n *Negotiator) EnsureAllowance(ctx context.Context, tokenAddress, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperrors.BadRequestError(
			fmt.Errorf("non-positive approval amount for token %s", tokenAddress.Hex()),
			"Token amount must be positive.",
		)
	}

	token, err := n.tokens.Token(tokenAddress)
	if err != nil {
		return fmt.Errorf("failed to bind token %s: %w", tokenAddress.Hex(), err)
	}

	owner := n.signer.Address()
	current, err := token.Allowance(&bind.CallOpts{Context: ctx}, owner, spender)
	if err != nil {
		return apperrors.NetworkError(fmt.Errorf("failed to read allowance for %s: %w", tokenAddress.Hex(), err))
	}

	if current.Cmp(amount) >= 0 {
		metrics.ApprovalsSkipped.Inc()
		n.logger.Debug("Allowance already sufficient",
			zap.String("token", tokenAddress.Hex()),
			zap.String("required", amount.String()),
			zap.String("current", current.String()))
		return nil
	}

	auth, err := n.signer.GetTransactor(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transactor: %w", err)
	}

	tx, err := token.Approve(auth, spender, amount)
	if err != nil {
		return apperrors.AllowanceError(
			fmt.Errorf("approval submission for %s failed: %w", tokenAddress.Hex(), err),
			"Token approval failed. The transfer was not started.",
		)
	}
	metrics.ApprovalsSubmitted.Inc()

	n.logger.Info("Approval submitted",
		zap.String("token", tokenAddress.Hex()),
		zap.String("spender", spender.Hex()),
		zap.String("amount", amount.String()),
		zap.String("tx_hash", tx.Hash().Hex()))

	if _, err := n.registry.AddTransaction(&ledger.Entry{
		Type:   ledger.TypeTokenApproval,
		Hash:   tx.Hash().Hex(),
		Token:  tokenAddress.Hex(),
		Amount: decimal.NewFromBigInt(amount, 0),
		Detail: ledger.ApprovalDetail{
			Token:   tokenAddress.Hex(),
			Spender: spender.Hex(),
			Amount:  amount.String(),
		},
	}); err != nil {
		return fmt.Errorf("failed to record approval entry: %w", err)
	}

	// Block until the approval finalizes; the next step must not race
	// allowance state.
	done := make(chan error, 1)
	if !n.watcher.Watch(tx.Hash(), ledger.TypeTokenApproval, monitor.Callbacks{
		OnConfirmed: func(*types.Receipt) { done <- nil },
		OnFailed:    func(err error) { done <- err },
	}) {
		// An existing watch holds the callbacks for this hash; waiting here
		// would block until the caller's context dies.
		return apperrors.AllowanceError(
			fmt.Errorf("approval %s is already being monitored", tx.Hash().Hex()),
			"A token approval for this transaction is already in flight. Wait for it to finalize and retry.",
		)
	}

	select {
	case err := <-done:
		if err != nil {
			return apperrors.AllowanceError(
				fmt.Errorf("approval %s did not finalize: %w", tx.Hash().Hex(), err),
				"Token approval did not finalize. The transfer was not started.",
			)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	n.logger.Info("Approval finalized",
		zap.String("token", tokenAddress.Hex()),
		zap.String("tx_hash", tx.Hash().Hex()))
	return nil
}

// EnsureAll negotiates allowances for each token strictly in the supplied
// order; approval N+1 is not submitted until approval N has finalized.
func (n *Negotiator) EnsureAll(ctx context.Context, tokens []common.Address, spender common.Address, amounts []*big.Int) error {
	if len(tokens) != len(amounts) {
		return apperrors.BadRequestError(
			fmt.Errorf("token/amount length mismatch: %d vs %d", len(tokens), len(amounts)),
			"Token and amount lists must have the same length.",
		)
	}
	for i, token := range tokens {
		if err := n.EnsureAllowance(ctx, token, spender, amounts[i]); err != nil {
			return err
		}
	}
	return nil
}
