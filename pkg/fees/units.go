package fees

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// nativeDecimals is the number of decimals of the native currency (wei per unit).
const nativeDecimals = 18

// FromWei converts a wei amount to a decimal denominated in the native unit
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -nativeDecimals)
}

// ToWei converts a native-unit decimal to wei, truncating sub-wei precision
func ToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(nativeDecimals).BigInt()
}
