// Package ship coordinates the lifecycle of pooled cross-chain transport
// units: creation, boarding and launch. The remote contract owns the state
// machine; this controller only initiates transitions and reads current state
// before deciding the next action.
package ship

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
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/config"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/fees"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/routes"
)

// maxCapacity bounds ship size; the contract enforces the same bound.
const maxCapacity = 10

// Factory is the ship factory contract surface
type Factory interface {
	Address() common.Address
	CreateShip(opts *bind.TransactOpts, tokens []common.Address, amounts []*big.Int, destinationChainSelector uint64, capacity uint8) (*types.Transaction, error)
	BoardShip(opts *bind.TransactOpts, ship common.Address, tokens []common.Address, amounts []*big.Int) (*types.Transaction, error)
	LaunchShip(opts *bind.TransactOpts, ship common.Address) (*types.Transaction, error)
	GetShip(opts *bind.CallOpts, ship common.Address) (*contracts.ShipState, error)
}

// FeeCalculator derives required fees in native units
type FeeCalculator interface {
	CreationFee(ctx context.Context, capacity uint8, tokenCount int) (decimal.Decimal, error)
	BoardingFee(ctx context.Context) (decimal.Decimal, error)
}

// Negotiator ensures token allowances before value-moving calls
type Negotiator interface {
	EnsureAll(ctx context.Context, tokens []common.Address, spender common.Address, amounts []*big.Int) error
}

// Signer provides the submitting account, transactors and balance reads
type Signer interface {
	Address() common.Address
	GetTransactor(ctx context.Context) (*bind.TransactOpts, error)
	NativeBalance(ctx context.Context) (*big.Int, error)
}

// Watcher hands submitted transactions to the monitor
type Watcher interface {
	Watch(txHash common.Hash, entryType ledger.EntryType, cb monitor.Callbacks) bool
}

// Controller orchestrates ship operations end to end: validation, fee
// derivation, allowance negotiation, submission, ledger recording and monitor
// hand-off. Submission calls return as soon as the network accepts the
// transaction; outcomes arrive asynchronously through the ledger.
type Controller struct {
	factory     Factory
	fees        FeeCalculator
	negotiator  Negotiator
	signer      Signer
	watcher     Watcher
	registry    ledger.Registry
	maxTransfer *big.Int
	logger      *zap.Logger
}

// NewController builds a controller from its collaborators
func NewController(
	factory Factory,
	calculator FeeCalculator,
	negotiator Negotiator,
	signer Signer,
	watcher Watcher,
	registry ledger.Registry,
	cfg *config.ShipsConfig,
	logger *zap.Logger,
) (*Controller, error) {
	maxTransfer, err := decimal.NewFromString(cfg.MaxTransferAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid max transfer amount %q: %w", cfg.MaxTransferAmount, err)
	}

	return &Controller{
		factory:     factory,
		fees:        calculator,
		negotiator:  negotiator,
		signer:      signer,
		watcher:     watcher,
		registry:    registry,
		maxTransfer: fees.ToWei(maxTransfer),
		logger:      logger,
	}, nil
}

// CreateShip creates a new pooled transport unit. With capacity 1 this is a
// solo launch; the underlying call is identical either way.
func (c *Controller) CreateShip(ctx context.Context, req *CreateRequest) (*Submission, error) {
	if err := c.validateAmounts(req.Tokens, req.Amounts); err != nil {
		return nil, err
	}
	if req.Capacity < 1 || req.Capacity > maxCapacity {
		return nil, apperrors.BadRequestError(
			fmt.Errorf("capacity %d out of range", req.Capacity),
			fmt.Sprintf("Ship capacity must be between 1 and %d.", maxCapacity),
		)
	}

	// Unknown destinations fail before anything is spent.
	selector, err := routes.Selector(req.DestinationChain)
	if err != nil {
		return nil, err
	}

	fee, err := c.fees.CreationFee(ctx, req.Capacity, len(req.Tokens))
	if err != nil {
		return nil, err
	}
	feeWei := fees.ToWei(fee)

	if err := c.checkNativeBalance(ctx, feeWei); err != nil {
		return nil, err
	}

	if err := c.negotiator.EnsureAll(ctx, req.Tokens, c.factory.Address(), req.Amounts); err != nil {
		return nil, err
	}

	auth, err := c.signer.GetTransactor(ctx)
	if err != nil {
		return nil, mapSubmitError(err)
	}
	auth.Value = feeWei

	tx, err := c.factory.CreateShip(auth, req.Tokens, req.Amounts, selector, req.Capacity)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	c.logger.Info("Ship creation submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("destination", req.DestinationChain),
		zap.Uint8("capacity", req.Capacity),
		zap.String("fee", fee.String()),
		zap.Bool("solo_launch", req.Capacity == 1))

	entry, err := c.record(tx.Hash(), ledger.TypeShipCreation, fee, "", ledger.CreationDetail{
		DestinationChain: req.DestinationChain,
		Capacity:         req.Capacity,
		Tokens:           addressStrings(req.Tokens),
		Amounts:          amountStrings(req.Amounts),
	})
	if err != nil {
		return nil, err
	}

	return &Submission{TxHash: tx.Hash(), Entry: entry}, nil
}

// BoardShip contributes tokens to an existing ship. Fullness, prior boarding
// and launch state are arbitrated by the remote contract; its rejection
// reasons are translated for the caller.
func (c *Controller) BoardShip(ctx context.Context, req *BoardRequest) (*Submission, error) {
	if err := c.validateAmounts(req.Tokens, req.Amounts); err != nil {
		return nil, err
	}

	fee, err := c.fees.BoardingFee(ctx)
	if err != nil {
		return nil, err
	}
	feeWei := fees.ToWei(fee)

	if err := c.checkNativeBalance(ctx, feeWei); err != nil {
		return nil, err
	}

	if err := c.negotiator.EnsureAll(ctx, req.Tokens, c.factory.Address(), req.Amounts); err != nil {
		return nil, err
	}

	auth, err := c.signer.GetTransactor(ctx)
	if err != nil {
		return nil, mapSubmitError(err)
	}
	auth.Value = feeWei

	tx, err := c.factory.BoardShip(auth, req.Ship, req.Tokens, req.Amounts)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	c.logger.Info("Boarding submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("ship", req.Ship.Hex()),
		zap.String("fee", fee.String()))

	entry, err := c.record(tx.Hash(), ledger.TypeShipBoarding, fee, req.Ship.Hex(), ledger.BoardingDetail{
		Ship:    req.Ship.Hex(),
		Tokens:  addressStrings(req.Tokens),
		Amounts: amountStrings(req.Amounts),
	})
	if err != nil {
		return nil, err
	}

	return &Submission{TxHash: tx.Hash(), Entry: entry}, nil
}

// LaunchShip triggers the outbound cross-chain send for a full ship. The
// contract enforces the passenger and fee preconditions; once the launch
// finalizes the ship is permanently closed to boarding.
func (c *Controller) LaunchShip(ctx context.Context, shipAddress common.Address) (*Submission, error) {
	auth, err := c.signer.GetTransactor(ctx)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	tx, err := c.factory.LaunchShip(auth, shipAddress)
	if err != nil {
		return nil, mapSubmitError(err)
	}

	c.logger.Info("Launch submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("ship", shipAddress.Hex()))

	entry, err := c.record(tx.Hash(), ledger.TypeShipLaunch, decimal.Zero, shipAddress.Hex(), ledger.LaunchDetail{
		Ship: shipAddress.Hex(),
	})
	if err != nil {
		return nil, err
	}

	return &Submission{TxHash: tx.Hash(), Entry: entry}, nil
}

// ShipStatus reads the current ship state fresh from the chain
func (c *Controller) ShipStatus(ctx context.Context, shipAddress common.Address) (*Ship, error) {
	state, err := c.factory.GetShip(&bind.CallOpts{Context: ctx}, shipAddress)
	if err != nil {
		return nil, apperrors.NetworkError(fmt.Errorf("failed to read ship %s: %w", shipAddress.Hex(), err))
	}
	return shipFromState(shipAddress, state), nil
}

func (c *Controller) record(txHash common.Hash, entryType ledger.EntryType, amount decimal.Decimal, shipAddress string, detail ledger.Detail) (*ledger.Entry, error) {
	entry, err := c.registry.AddTransaction(&ledger.Entry{
		Type:   entryType,
		Hash:   txHash.Hex(),
		Amount: amount,
		Ship:   shipAddress,
		Detail: detail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record %s entry: %w", entryType, err)
	}

	metrics.TransactionsSubmitted.WithLabelValues(string(entryType)).Inc()
	c.watcher.Watch(txHash, entryType, monitor.Callbacks{})
	return entry, nil
}

func (c *Controller) validateAmounts(tokens []common.Address, amounts []*big.Int) error {
	if len(tokens) == 0 {
		return apperrors.BadRequestError(
			fmt.Errorf("no tokens supplied"),
			"At least one token is required.",
		)
	}
	if len(tokens) != len(amounts) {
		return apperrors.BadRequestError(
			fmt.Errorf("token/amount length mismatch: %d vs %d", len(tokens), len(amounts)),
			"Token and amount lists must have the same length.",
		)
	}
	for i, amount := range amounts {
		if amount == nil || amount.Sign() <= 0 {
			return apperrors.BadRequestError(
				fmt.Errorf("non-positive amount at index %d", i),
				"Token amounts must be positive.",
			)
		}
		if amount.Cmp(c.maxTransfer) > 0 {
			return apperrors.BadRequestError(
				fmt.Errorf("amount %s at index %d exceeds per-transfer ceiling %s", amount, i, c.maxTransfer),
				"Token amount exceeds the per-transfer limit.",
			)
		}
	}
	return nil
}

func (c *Controller) checkNativeBalance(ctx context.Context, feeWei *big.Int) error {
	balance, err := c.signer.NativeBalance(ctx)
	if err != nil {
		// Balance preflight is best effort; submission surfaces the
		// authoritative insufficient-funds error.
		c.logger.Debug("Balance preflight failed", zap.Error(err))
		return nil
	}
	if balance.Cmp(feeWei) < 0 {
		return apperrors.InsufficientFundsError(
			fmt.Errorf("native balance %s below required fee %s", balance, feeWei))
	}
	return nil
}

func addressStrings(addresses []common.Address) []string {
	out := make([]string, len(addresses))
	for i, a := range addresses {
		out[i] = a.Hex()
	}
	return out
}

func amountStrings(amounts []*big.Int) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.String()
	}
	return out
}
