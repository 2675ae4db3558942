// Package routes holds the static table of CCIP lanes the ship factory can
// launch into, keyed by destination chain name.
package routes

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
)

// chainSelectors maps destination chain identifiers to CCIP chain selectors.
// Selectors are assigned by Chainlink and are stable per chain.
var chainSelectors = map[string]uint64{
	"ethereum-sepolia": 16015286601757825753,
	"arbitrum-sepolia": 3478487238524512106,
	"base-sepolia":     10344971235874465080,
	"optimism-sepolia": 5224473277236331295,
	"avalanche-fuji":   14767482510784806043,
	"polygon-amoy":     16281711391670634445,
}

// Selector returns the CCIP chain selector for a destination chain, failing
// fast when no lane is configured for it.
func Selector(destinationChain string) (uint64, error) {
	selector, ok := chainSelectors[strings.ToLower(destinationChain)]
	if !ok {
		return 0, apperrors.ConfigurationError(
			fmt.Errorf("no CCIP route for destination chain %q", destinationChain),
			fmt.Sprintf("Destination chain %q is not supported.", destinationChain),
		)
	}
	return selector, nil
}

// Supported returns the sorted list of destination chains with a configured lane.
func Supported() []string {
	chains := make([]string, 0, len(chainSelectors))
	for name := range chainSelectors {
		chains = append(chains, name)
	}
	sort.Strings(chains)
	return chains
}
