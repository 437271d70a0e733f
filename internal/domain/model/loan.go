package model

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// daysPerTenureMonth is the fixed month length used to derive a loan's end date.
const daysPerTenureMonth = 30

// ---------------------------------------------------------------------------
// Loan aggregate
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. The ID is assigned by the repository on
// first save.
type Loan struct {
	id               int64
	customerID       int64
	loanAmount       decimal.Decimal
	tenureMonths     int
	interestRate     decimal.Decimal
	monthlyRepayment decimal.Decimal
	emisPaidOnTime   int
	startDate        civil.Date
	endDate          civil.Date
}

// NewLoan creates a freshly approved loan starting on startDate. No EMIs have
// been paid yet and the end date is 30 days per tenure month after the start.
func NewLoan(
	customerID int64,
	loanAmount decimal.Decimal,
	tenureMonths int,
	interestRate, monthlyRepayment decimal.Decimal,
	startDate civil.Date,
) (Loan, error) {
	if customerID <= 0 {
		return Loan{}, fmt.Errorf("%w: customer ID is required", ErrInvalidArgument)
	}
	if !loanAmount.IsPositive() {
		return Loan{}, fmt.Errorf("%w: loan amount must be positive", ErrInvalidArgument)
	}
	if tenureMonths < 1 {
		return Loan{}, fmt.Errorf("%w: tenure must be at least one month", ErrInvalidArgument)
	}
	if interestRate.IsNegative() {
		return Loan{}, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidArgument)
	}
	if !startDate.IsValid() {
		return Loan{}, fmt.Errorf("%w: start date is invalid", ErrInvalidArgument)
	}

	return Loan{
		customerID:       customerID,
		loanAmount:       loanAmount,
		tenureMonths:     tenureMonths,
		interestRate:     interestRate,
		monthlyRepayment: monthlyRepayment,
		emisPaidOnTime:   0,
		startDate:        startDate,
		endDate:          startDate.AddDays(daysPerTenureMonth * tenureMonths),
	}, nil
}

// ReconstructLoan rebuilds a Loan from persistence or bulk ingestion.
func ReconstructLoan(
	id, customerID int64,
	loanAmount decimal.Decimal,
	tenureMonths int,
	interestRate, monthlyRepayment decimal.Decimal,
	emisPaidOnTime int,
	startDate, endDate civil.Date,
) Loan {
	return Loan{
		id:               id,
		customerID:       customerID,
		loanAmount:       loanAmount,
		tenureMonths:     tenureMonths,
		interestRate:     interestRate,
		monthlyRepayment: monthlyRepayment,
		emisPaidOnTime:   emisPaidOnTime,
		startDate:        startDate,
		endDate:          endDate,
	}
}

// WithID returns a copy carrying the repository-assigned identifier.
func (l Loan) WithID(id int64) Loan {
	next := l
	next.id = id
	return next
}

// IsCurrent reports whether the loan is still running on the given day.
func (l Loan) IsCurrent(today civil.Date) bool {
	return !l.endDate.Before(today)
}

// RepaymentsLeft is the number of EMIs not yet paid on time.
func (l Loan) RepaymentsLeft() int {
	return l.tenureMonths - l.emisPaidOnTime
}

// Record returns the read-only snapshot consumed by the scoring engine.
func (l Loan) Record() LoanRecord {
	return LoanRecord{
		CustomerID:       l.customerID,
		LoanAmount:       l.loanAmount,
		EMIsPaidOnTime:   l.emisPaidOnTime,
		StartDate:        l.startDate,
		EndDate:          l.endDate,
		MonthlyRepayment: l.monthlyRepayment,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() int64                         { return l.id }
func (l Loan) CustomerID() int64                 { return l.customerID }
func (l Loan) LoanAmount() decimal.Decimal       { return l.loanAmount }
func (l Loan) TenureMonths() int                 { return l.tenureMonths }
func (l Loan) InterestRate() decimal.Decimal     { return l.interestRate }
func (l Loan) MonthlyRepayment() decimal.Decimal { return l.monthlyRepayment }
func (l Loan) EMIsPaidOnTime() int               { return l.emisPaidOnTime }
func (l Loan) StartDate() civil.Date             { return l.startDate }
func (l Loan) EndDate() civil.Date               { return l.endDate }

// Records converts loans to engine snapshots.
func Records(loans []Loan) []LoanRecord {
	out := make([]LoanRecord, 0, len(loans))
	for _, l := range loans {
		out = append(out, l.Record())
	}
	return out
}
