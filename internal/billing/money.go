package billing

import "github.com/shopspring/decimal"

// Monetary values carry 2 decimal places; intermediate daily interest rates
// carry 4. Rounding is half up throughout.
const (
	currencyScale = 2
	rateScale     = 4
)

var (
	hundred    = decimal.NewFromInt(100)
	daysInBase = decimal.NewFromInt(30)
)

// ApplyDiscounts computes the net total of a charge: the percent discount is
// taken on base first, the flat discount is subtracted from that result, and
// the final value is floored at zero.
func ApplyDiscounts(base, percent, flat decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, validationf("base amount must not be negative, got %s", base)
	}
	if percent.IsNegative() || flat.IsNegative() {
		return decimal.Zero, validationf("discounts must not be negative")
	}
	if percent.GreaterThan(hundred) {
		return decimal.Zero, validationf("percent discount must not exceed 100, got %s", percent)
	}

	percentOff := base.Mul(percent).Div(hundred).Round(currencyScale)
	total := base.Sub(percentOff).Sub(flat)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(currencyScale), nil
}

// SimpleInterest accrues daysLate days of simple interest on principal. The
// daily rate is monthlyRate/30 rounded to 4 places; no interest accrues when
// the charge is not overdue.
func SimpleInterest(principal, monthlyRate decimal.Decimal, daysLate int) decimal.Decimal {
	if daysLate <= 0 || !principal.IsPositive() || !monthlyRate.IsPositive() {
		return decimal.Zero
	}
	dailyRate := monthlyRate.Div(daysInBase).Round(rateScale)
	interest := principal.Mul(dailyRate).Mul(decimal.NewFromInt(int64(daysLate)))
	return interest.Round(currencyScale)
}
