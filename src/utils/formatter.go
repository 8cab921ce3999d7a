package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Formatter is the single place for fixed-point arithmetic helpers.
// Price and quantity math never touches binary floating point.
type Formatter struct {
}

func (m *Formatter) ToFixedDown(value decimal.Decimal, precision int32) decimal.Decimal {
	return value.RoundDown(precision)
}

// PrecisionFromStep counts the significant decimal digits of a step size,
// trailing zeros stripped: "0.00100000" -> 3, "1.00000000" -> 0.
func (m *Formatter) PrecisionFromStep(step decimal.Decimal) int32 {
	split := strings.Split(step.String(), ".")
	if len(split) < 2 {
		return 0
	}

	fraction := strings.TrimRight(split[1], "0")

	return int32(len(fraction))
}

// PercentDistance is |target - current| / target * 100, two decimals.
func (m *Formatter) PercentDistance(current decimal.Decimal, target decimal.Decimal) string {
	if target.IsZero() {
		return "0.00%"
	}

	distance := target.Sub(current).Abs().Div(target).Mul(decimal.NewFromInt(100))

	return fmt.Sprintf("%s%%", distance.StringFixed(2))
}
