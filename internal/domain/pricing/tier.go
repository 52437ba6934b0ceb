package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxTierSteps bounds N in an "N*P" tier name
const maxTierSteps = 20

// TierPercentage derives the effective discount of a tier named "N*P", which
// stands for N successive discounts of P percent: 1 - (1 - P/100)^N, as a
// percentage truncated to two places. "2*5" yields 9.75 and "4*5" yields
// 18.54. ok is false when name does not follow the pattern.
func TierPercentage(name string) (pct decimal.Decimal, ok bool) {
	left, right, found := strings.Cut(strings.TrimSpace(name), "*")
	if !found {
		return decimal.Zero, false
	}

	steps, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || steps < 1 || steps > maxTierSteps {
		return decimal.Zero, false
	}

	step, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(right), ",", "."))
	if err != nil || step.IsNegative() || step.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, false
	}

	remaining := decimal.NewFromInt(1)
	factor := decimal.NewFromInt(1).Sub(step.Shift(-2))
	for i := 0; i < steps; i++ {
		remaining = remaining.Mul(factor)
	}

	return decimal.NewFromInt(1).Sub(remaining).Shift(2).Truncate(2), true
}
