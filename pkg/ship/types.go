package ship

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
)

// Ship is the client-side view of one pooled transport unit. The remote
// contract owns this state; the client only reads it.
type Ship struct {
	ID                *big.Int         `json:"id"`
	Address           common.Address   `json:"address"`
	Capacity          uint8            `json:"capacity"`
	CurrentPassengers uint8            `json:"current_passengers"`
	SupportedTokens   []common.Address `json:"supported_tokens"`
	CollectedFees     *big.Int         `json:"collected_fees"`
	CCIPFee           *big.Int         `json:"ccip_fee"`
	IsLaunched        bool             `json:"is_launched"`
}

// LaunchEligible reports whether the ship can launch right now. This is a
// pure derived predicate over fresh reads, never cached.
func (s *Ship) LaunchEligible() bool {
	if s.IsLaunched {
		return false
	}
	if s.CurrentPassengers != s.Capacity {
		return false
	}
	if s.CollectedFees == nil || s.CCIPFee == nil {
		return false
	}
	return s.CollectedFees.Cmp(s.CCIPFee) >= 0
}

func shipFromState(address common.Address, state *contracts.ShipState) *Ship {
	return &Ship{
		ID:                state.ID,
		Address:           address,
		Capacity:          state.Capacity,
		CurrentPassengers: state.CurrentPassengers,
		SupportedTokens:   state.SupportedTokens,
		CollectedFees:     state.CollectedFees,
		CCIPFee:           state.CCIPFee,
		IsLaunched:        state.Launched,
	}
}

// CreateRequest describes a ship creation. Amounts are in the tokens'
// smallest units, positionally paired with Tokens.
type CreateRequest struct {
	Tokens           []common.Address
	Amounts          []*big.Int
	DestinationChain string
	Capacity         uint8
}

// BoardRequest describes a boarding contribution to an existing ship
type BoardRequest struct {
	Ship    common.Address
	Tokens  []common.Address
	Amounts []*big.Int
}

// Submission is returned once a state-changing call has been accepted by the
// network. The outcome arrives later through the monitor and the ledger.
type Submission struct {
	TxHash common.Hash
	Entry  *ledger.Entry
}
