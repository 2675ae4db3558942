package fees

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
)

// FactorySchedule answers fee queries from the ship factory contract
type FactorySchedule struct {
	factory *contracts.ShipFactory
}

// NewFactorySchedule wraps a factory binding as a Schedule
func NewFactorySchedule(factory *contracts.ShipFactory) *FactorySchedule {
	return &FactorySchedule{factory: factory}
}

// CreationFee queries getCreationFee on the factory
func (s *FactorySchedule) CreationFee(ctx context.Context, capacity uint8, tokenCount int) (*big.Int, error) {
	return s.factory.GetCreationFee(&bind.CallOpts{Context: ctx}, capacity, big.NewInt(int64(tokenCount)))
}

// BoardingFee queries getBoardingFee on the factory
func (s *FactorySchedule) BoardingFee(ctx context.Context) (*big.Int, error) {
	return s.factory.GetBoardingFee(&bind.CallOpts{Context: ctx})
}
