package contracts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const shipFactoryABI = `[
	{"inputs":[{"name":"tokens","type":"address[]"},{"name":"amounts","type":"uint256[]"},{"name":"destinationChainSelector","type":"uint64"},{"name":"capacity","type":"uint8"}],"name":"createShip","outputs":[{"name":"ship","type":"address"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"ship","type":"address"},{"name":"tokens","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"name":"boardShip","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"ship","type":"address"}],"name":"launchShip","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"ship","type":"address"}],"name":"getShip","outputs":[{"name":"id","type":"uint256"},{"name":"capacity","type":"uint8"},{"name":"currentPassengers","type":"uint8"},{"name":"supportedTokens","type":"address[]"},{"name":"collectedFees","type":"uint256"},{"name":"ccipFee","type":"uint256"},{"name":"launched","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"capacity","type":"uint8"},{"name":"tokenCount","type":"uint256"}],"name":"getCreationFee","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getBoardingFee","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"ShipFull","type":"error"},
	{"inputs":[],"name":"AlreadyLaunched","type":"error"},
	{"inputs":[],"name":"AlreadyPassenger","type":"error"},
	{"inputs":[],"name":"InsufficientFee","type":"error"},
	{"inputs":[],"name":"TokenTransferFailed","type":"error"}
]`

// ShipState mirrors the on-chain view of one pooled transport unit
type ShipState struct {
	ID                *big.Int
	Capacity          uint8
	CurrentPassengers uint8
	SupportedTokens   []common.Address
	CollectedFees     *big.Int
	CCIPFee           *big.Int
	Launched          bool
}

// ShipFactory is a binding over the factory contract that creates, boards and
// launches ships
type ShipFactory struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewShipFactory creates a binding for the factory at the given address
func NewShipFactory(address common.Address, backend bind.ContractBackend) (*ShipFactory, error) {
	parsed, err := abi.JSON(strings.NewReader(shipFactoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ship factory ABI: %w", err)
	}
	return &ShipFactory{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the factory contract address. Approvals are granted to the
// factory, which pulls tokens on creation and boarding.
func (f *ShipFactory) Address() common.Address {
	return f.address
}

// CreateShip submits the creation call; the computed creation fee rides along
// as the transaction value via opts.Value
func (f *ShipFactory) CreateShip(opts *bind.TransactOpts, tokens []common.Address, amounts []*big.Int, destinationChainSelector uint64, capacity uint8) (*types.Transaction, error) {
	return f.contract.Transact(opts, "createShip", tokens, amounts, destinationChainSelector, capacity)
}

// BoardShip submits a boarding call with the base boarding fee as value
func (f *ShipFactory) BoardShip(opts *bind.TransactOpts, ship common.Address, tokens []common.Address, amounts []*big.Int) (*types.Transaction, error) {
	return f.contract.Transact(opts, "boardShip", ship, tokens, amounts)
}

// LaunchShip submits the launch call. No token transfer happens here; the
// contract enforces the passenger and fee preconditions.
func (f *ShipFactory) LaunchShip(opts *bind.TransactOpts, ship common.Address) (*types.Transaction, error) {
	return f.contract.Transact(opts, "launchShip", ship)
}

// GetShip reads the current state of a ship
func (f *ShipFactory) GetShip(opts *bind.CallOpts, ship common.Address) (*ShipState, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getShip", ship); err != nil {
		return nil, fmt.Errorf("getShip call failed: %w", err)
	}
	return &ShipState{
		ID:                abi.ConvertType(out[0], new(big.Int)).(*big.Int),
		Capacity:          *abi.ConvertType(out[1], new(uint8)).(*uint8),
		CurrentPassengers: *abi.ConvertType(out[2], new(uint8)).(*uint8),
		SupportedTokens:   *abi.ConvertType(out[3], new([]common.Address)).(*[]common.Address),
		CollectedFees:     abi.ConvertType(out[4], new(big.Int)).(*big.Int),
		CCIPFee:           abi.ConvertType(out[5], new(big.Int)).(*big.Int),
		Launched:          *abi.ConvertType(out[6], new(bool)).(*bool),
	}, nil
}

// GetCreationFee queries the remote fee schedule for the given capacity and
// token count. The result is in wei.
func (f *ShipFactory) GetCreationFee(opts *bind.CallOpts, capacity uint8, tokenCount *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getCreationFee", capacity, tokenCount); err != nil {
		return nil, fmt.Errorf("getCreationFee call failed: %w", err)
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// GetBoardingFee queries the fixed base boarding fee in wei
func (f *ShipFactory) GetBoardingFee(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getBoardingFee"); err != nil {
		return nil, fmt.Errorf("getBoardingFee call failed: %w", err)
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
