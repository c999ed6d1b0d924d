package money

import "github.com/shopspring/decimal"

// RoundRupiah rounds an amount half-up to a whole rupiah. IDR has no cents,
// so every tax and contribution figure leaving the engine goes through this.
func RoundRupiah(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// FloorToThousand truncates an amount down to the nearest thousand rupiah.
// Annual PKP is floored this way before the progressive slabs apply.
func FloorToThousand(amount decimal.Decimal) decimal.Decimal {
	thousand := decimal.NewFromInt(1000)
	return amount.Div(thousand).Floor().Mul(thousand)
}

// Percent returns amount * rate / 100 without rounding. Callers round once,
// at the end of their computation.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(decimal.NewFromInt(100))
}

// Cap returns amount capped at max. A nil max means uncapped.
func Cap(amount decimal.Decimal, max *decimal.Decimal) decimal.Decimal {
	if max != nil && amount.GreaterThan(*max) {
		return *max
	}
	return amount
}

// MaxZero clamps negative amounts to zero.
func MaxZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
