// Package fees derives the native-currency fees required to create and board
// ships. Fees come from the remote fee schedule with a local fallback, and a
// sanity ceiling guards against a misconfigured or hostile schedule.
package fees

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/internal/metrics"
	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/config"
)

// ErrFeeExceedsCeiling signals a fee value implausibly large relative to the
// sanity ceiling. The fee schedule is attacker- or bug-controllable upstream;
// this is the last line of defense before overpaying.
var ErrFeeExceedsCeiling = errors.New("computed fee exceeds sanity ceiling")

// Schedule is the remote fee schedule, answered by the factory contract
type Schedule interface {
	CreationFee(ctx context.Context, capacity uint8, tokenCount int) (*big.Int, error)
	BoardingFee(ctx context.Context) (*big.Int, error)
}

// Calculator derives required fees with fallback and ceiling enforcement
type Calculator struct {
	schedule         Schedule
	fallbackCreation decimal.Decimal
	fallbackBoarding decimal.Decimal
	ceiling          decimal.Decimal
	logger           *zap.Logger
}

// NewCalculator builds a calculator from the ships configuration
func NewCalculator(schedule Schedule, cfg *config.ShipsConfig, logger *zap.Logger) (*Calculator, error) {
	ceiling, err := decimal.NewFromString(cfg.FeeCeiling)
	if err != nil {
		return nil, fmt.Errorf("invalid fee ceiling %q: %w", cfg.FeeCeiling, err)
	}
	fallbackCreation, err := decimal.NewFromString(cfg.FallbackCreationFee)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback creation fee %q: %w", cfg.FallbackCreationFee, err)
	}
	fallbackBoarding, err := decimal.NewFromString(cfg.BoardingFee)
	if err != nil {
		return nil, fmt.Errorf("invalid boarding fee %q: %w", cfg.BoardingFee, err)
	}

	return &Calculator{
		schedule:         schedule,
		fallbackCreation: fallbackCreation,
		fallbackBoarding: fallbackBoarding,
		ceiling:          ceiling,
		logger:           logger,
	}, nil
}

// CreationFee returns the fee required to create a ship with the given
// capacity and token count, in native units. A failed schedule query falls
// back to the configured constant; a fee at or above the ceiling is rejected
// as a configuration fault before anything is submitted.
func (c *Calculator) CreationFee(ctx context.Context, capacity uint8, tokenCount int) (decimal.Decimal, error) {
	fee := c.fallbackCreation

	wei, err := c.schedule.CreationFee(ctx, capacity, tokenCount)
	if err != nil {
		metrics.FeeFallbacks.Inc()
		c.logger.Warn("Fee schedule query failed, using fallback fee",
			zap.Uint8("capacity", capacity),
			zap.Int("token_count", tokenCount),
			zap.String("fallback", fee.String()),
			zap.Error(err))
	} else {
		fee = FromWei(wei)
	}

	if err := c.checkCeiling(fee); err != nil {
		return decimal.Zero, err
	}
	return fee, nil
}

// BoardingFee returns the fixed base fee for boarding a ship, in native units
func (c *Calculator) BoardingFee(ctx context.Context) (decimal.Decimal, error) {
	fee := c.fallbackBoarding

	wei, err := c.schedule.BoardingFee(ctx)
	if err != nil {
		metrics.FeeFallbacks.Inc()
		c.logger.Warn("Boarding fee query failed, using configured fee",
			zap.String("fallback", fee.String()),
			zap.Error(err))
	} else {
		fee = FromWei(wei)
	}

	if err := c.checkCeiling(fee); err != nil {
		return decimal.Zero, err
	}
	return fee, nil
}

func (c *Calculator) checkCeiling(fee decimal.Decimal) error {
	if fee.Cmp(c.ceiling) >= 0 {
		metrics.FeeCeilingRejections.Inc()
		c.logger.Error("Computed fee rejected by sanity ceiling",
			zap.String("fee", fee.String()),
			zap.String("ceiling", c.ceiling.String()))
		return apperrors.ConfigurationError(
			fmt.Errorf("%w: fee %s, ceiling %s", ErrFeeExceedsCeiling, fee, c.ceiling),
			"Computed fee is implausibly high. Refusing to proceed; check the fee schedule configuration.",
		)
	}
	return nil
}
