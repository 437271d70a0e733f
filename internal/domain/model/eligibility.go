package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Upper bounds on a request, sized to the loans table columns.
var (
	MaxLoanAmount   = decimal.RequireFromString("9999999999999.99")
	MaxInterestRate = decimal.RequireFromString("999.9999")
)

// MaxTenureMonths caps a request at one hundred years.
const MaxTenureMonths = 1200

// EligibilityRequest is the prospective loan a customer asks for.
type EligibilityRequest struct {
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
}

// Validate rejects malformed requests before any computation happens.
func (r EligibilityRequest) Validate() error {
	if !r.LoanAmount.IsPositive() {
		return fmt.Errorf("%w: loan amount must be positive", ErrInvalidArgument)
	}
	if r.LoanAmount.GreaterThan(MaxLoanAmount) {
		return fmt.Errorf("%w: loan amount must not exceed %s", ErrInvalidArgument, MaxLoanAmount)
	}
	if !r.InterestRate.IsPositive() {
		return fmt.Errorf("%w: interest rate must be positive", ErrInvalidArgument)
	}
	if r.InterestRate.GreaterThan(MaxInterestRate) {
		return fmt.Errorf("%w: interest rate must not exceed %s%%", ErrInvalidArgument, MaxInterestRate)
	}
	if r.TenureMonths < 1 || r.TenureMonths > MaxTenureMonths {
		return fmt.Errorf("%w: tenure must be between 1 and %d months", ErrInvalidArgument, MaxTenureMonths)
	}
	return nil
}

// EligibilityResult is the outcome of an eligibility decision. The monthly
// installment is always computed at the corrected rate, approved or not.
type EligibilityResult struct {
	Approved              bool
	RequestedInterestRate decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	TenureMonths          int
	MonthlyInstallment    decimal.Decimal
	Reason                string
}
