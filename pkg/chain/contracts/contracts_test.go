package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// The ABIs are maintained by hand; the constructors must parse them cleanly.

func TestNewERC20_ParsesABI(t *testing.T) {
	token, err := NewERC20(common.HexToAddress("0x01"), nil)
	if err != nil {
		t.Fatalf("NewERC20 failed: %v", err)
	}
	if token.Address() != common.HexToAddress("0x01") {
		t.Errorf("Unexpected token address %s", token.Address().Hex())
	}
}

func TestNewShipFactory_ParsesABI(t *testing.T) {
	factory, err := NewShipFactory(common.HexToAddress("0x02"), nil)
	if err != nil {
		t.Fatalf("NewShipFactory failed: %v", err)
	}
	if factory.Address() != common.HexToAddress("0x02") {
		t.Errorf("Unexpected factory address %s", factory.Address().Hex())
	}
}
