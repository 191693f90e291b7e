package fees

import "github.com/shopspring/decimal"

// Round2 rounds a dollar amount to cents using decimal arithmetic, avoiding
// the half-even surprises of naive float rounding.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
