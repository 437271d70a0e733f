package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CalculateEMI computes the fixed monthly installment of an amortizing loan.
//
// The calculation uses:
//
//	monthlyRate = annualRatePercent / 1200
//	payment     = P * r / (1 - (1+r)^-n)
//
// A zero rate splits the principal evenly across the tenure. The result is
// rounded to 2 decimal places, halves away from zero.
func CalculateEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths < 1 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be at least one month, got %d", ErrInvalidArgument, tenureMonths)
	}
	if principal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal must not be negative", ErrInvalidArgument)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidArgument)
	}

	// float64 for the power term, decimal for everything monetary.
	// (1+r)^-n underflows to zero on very long tenures, leaving P*r.
	monthlyRate := annualRatePercent.InexactFloat64() / 1200.0
	discount := math.Pow(1+monthlyRate, -float64(tenureMonths))
	if annualRatePercent.IsZero() || discount >= 1 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2), nil
	}
	payment := principal.InexactFloat64() * monthlyRate / (1 - discount)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return decimal.Zero, fmt.Errorf("%w: installment out of range", ErrInvalidArgument)
	}

	return decimal.NewFromFloat(payment).Round(2), nil
}
